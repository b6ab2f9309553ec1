package mastery

import "context"

type Repository interface {
	// ListPUUIDs returns the distinct players that already have mastery rows.
	ListPUUIDs(ctx context.Context) ([]string, error)
	ListByPUUID(ctx context.Context, puuid string) ([]ChampionMastery, error)
	InsertMany(ctx context.Context, items []ChampionMastery) error
}
