package lookup

import "context"

// Repository stores the derived lookup tables. Tables are rebuilt wholesale.
type Repository interface {
	ReplaceRuneStats(ctx context.Context, items []RuneStat) error
	ReplaceLaneStats(ctx context.Context, items []LaneStat) error
	ListRuneStatsByChampion(ctx context.Context, championID int) ([]RuneStat, error)
	ListLaneStats(ctx context.Context) ([]LaneStat, error)
}
