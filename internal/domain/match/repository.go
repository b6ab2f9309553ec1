package match

import "context"

// Repository persists normalized match records.
// Inserts are idempotent: rows whose key already exists are skipped.
type Repository interface {
	ListMatchIDs(ctx context.Context) ([]string, error)
	InsertMatch(ctx context.Context, m Match) error
	InsertTeams(ctx context.Context, teams []Team) error
	InsertPlayerMatches(ctx context.Context, players []PlayerMatch) error

	// ListUnenriched returns player rows whose enrichment has not run yet.
	ListUnenriched(ctx context.Context) ([]PlayerMatch, error)
	// UpdateEnrichment writes enrichment columns for existing rows keyed by (puuid, match id).
	// It returns the number of rows changed.
	UpdateEnrichment(ctx context.Context, updates []EnrichmentUpdate) (int, error)

	ListMatches(ctx context.Context) ([]Match, error)
	ListTeams(ctx context.Context) ([]Team, error)
	ListPlayerMatches(ctx context.Context) ([]PlayerMatch, error)
}

// EnrichmentUpdate targets one PlayerMatch row.
type EnrichmentUpdate struct {
	PUUID      string
	MatchID    string
	Enrichment Enrichment
}
