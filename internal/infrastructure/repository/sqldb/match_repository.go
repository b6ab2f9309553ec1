package sqldb

import (
	"context"
	"fmt"

	"github.com/riskibarqy/lol-dataset/internal/domain/match"
	qb "github.com/riskibarqy/lol-dataset/internal/platform/querybuilder"
	"github.com/riskibarqy/lol-dataset/internal/platform/sqlstore"
)

var (
	matchSelectColumns       = mustColumnNames(matchTableModel{})
	teamSelectColumns        = mustColumnNames(teamTableModel{})
	playerMatchSelectColumns = mustColumnNames(playerMatchTableModel{})
)

type MatchRepository struct {
	store  *sqlstore.Store
	tables Tables
}

func NewMatchRepository(store *sqlstore.Store, tables Tables) *MatchRepository {
	return &MatchRepository{store: store, tables: tables.withDefaults()}
}

func (r *MatchRepository) ListMatchIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	err := selectIfExists(ctx, r.store, r.tables.Match, func() error {
		return r.store.Select(ctx, &ids, qb.Select("match_id").From(r.tables.Match))
	})
	if err != nil {
		return nil, fmt.Errorf("select match ids: %w", err)
	}
	return ids, nil
}

func (r *MatchRepository) InsertMatch(ctx context.Context, m match.Match) error {
	row, err := toMatchModel(m)
	if err != nil {
		return fmt.Errorf("encode match %s: %w", m.MatchID, err)
	}
	res, err := sqlstore.Insert(ctx, r.store, r.tables.Match, []matchTableModel{row}, "match_id")
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.MatchID, err)
	}
	return res.Failures
}

func (r *MatchRepository) InsertTeams(ctx context.Context, teams []match.Team) error {
	rows := make([]teamTableModel, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, toTeamModel(t))
	}
	res, err := sqlstore.Insert(ctx, r.store, r.tables.Team, rows, "match_id", "team_id")
	if err != nil {
		return fmt.Errorf("insert teams: %w", err)
	}
	return res.Failures
}

func (r *MatchRepository) InsertPlayerMatches(ctx context.Context, players []match.PlayerMatch) error {
	rows := make([]playerMatchTableModel, 0, len(players))
	for _, p := range players {
		rows = append(rows, toPlayerMatchModel(p))
	}
	res, err := sqlstore.Insert(ctx, r.store, r.tables.PlayerMatch, rows, "puuid", "match_id")
	if err != nil {
		return fmt.Errorf("insert player matches: %w", err)
	}
	return res.Failures
}

func (r *MatchRepository) ListUnenriched(ctx context.Context) ([]match.PlayerMatch, error) {
	return r.listPlayerMatches(ctx, qb.IsNull("champion_level"))
}

// UpdateEnrichment only writes rows whose champion_level is still NULL, so a second
// run leaves earlier results untouched.
func (r *MatchRepository) UpdateEnrichment(ctx context.Context, updates []match.EnrichmentUpdate) (int, error) {
	rows := make([]playerMatchEnrichmentModel, 0, len(updates))
	for _, u := range updates {
		rows = append(rows, playerMatchEnrichmentModel{
			PUUID:            u.PUUID,
			MatchID:          u.MatchID,
			ChampionLevel:    u.Enrichment.ChampionLevel,
			ChampionPoints:   u.Enrichment.ChampionPoints,
			RuneWinRate:      u.Enrichment.RuneWinRate,
			RunePickRate:     u.Enrichment.RunePickRate,
			ChampionWinRate:  u.Enrichment.ChampionWinRate,
			ChampionPickRate: u.Enrichment.ChampionPickRate,
		})
	}

	res, err := sqlstore.Update(ctx, r.store, r.tables.PlayerMatch, rows,
		[]string{"puuid", "match_id"},
		qb.IsNull("champion_level"),
	)
	if err != nil {
		return res.Affected, fmt.Errorf("update enrichment: %w", err)
	}
	return res.Affected, res.Failures
}

func (r *MatchRepository) ListMatches(ctx context.Context) ([]match.Match, error) {
	var rows []matchTableModel
	err := selectIfExists(ctx, r.store, r.tables.Match, func() error {
		return r.store.Select(ctx, &rows, qb.Select(matchSelectColumns...).From(r.tables.Match).OrderBy("match_id"))
	})
	if err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		m, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode match %s: %w", row.MatchID, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *MatchRepository) ListTeams(ctx context.Context) ([]match.Team, error) {
	var rows []teamTableModel
	err := selectIfExists(ctx, r.store, r.tables.Team, func() error {
		return r.store.Select(ctx, &rows, qb.Select(teamSelectColumns...).From(r.tables.Team).OrderBy("match_id", "team_id"))
	})
	if err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]match.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) ListPlayerMatches(ctx context.Context) ([]match.PlayerMatch, error) {
	return r.listPlayerMatches(ctx)
}

func (r *MatchRepository) listPlayerMatches(ctx context.Context, conditions ...qb.Condition) ([]match.PlayerMatch, error) {
	var rows []playerMatchTableModel
	err := selectIfExists(ctx, r.store, r.tables.PlayerMatch, func() error {
		b := qb.Select(playerMatchSelectColumns...).
			From(r.tables.PlayerMatch).
			Where(conditions...).
			OrderBy("match_id", "participant_id")
		return r.store.Select(ctx, &rows, b)
	})
	if err != nil {
		return nil, fmt.Errorf("select player matches: %w", err)
	}

	out := make([]match.PlayerMatch, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func mustColumnNames(model any) []string {
	cols, err := qb.ColumnNames(model)
	if err != nil {
		panic(err)
	}
	return cols
}
