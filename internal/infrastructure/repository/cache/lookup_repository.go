package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/lol-dataset/internal/domain/lookup"
	basecache "github.com/riskibarqy/lol-dataset/internal/platform/cache"
)

const (
	runeStatsPrefix = "lookup:rune:"
	laneStatsKey    = "lookup:lane:all"
)

// LookupRepository is a read-through cache over a lookup.Repository. Replacing a table
// drops its cached entries.
type LookupRepository struct {
	next  lookup.Repository
	runes *basecache.Store[[]lookup.RuneStat]
	lanes *basecache.Store[[]lookup.LaneStat]
}

func NewLookupRepository(next lookup.Repository, runes *basecache.Store[[]lookup.RuneStat], lanes *basecache.Store[[]lookup.LaneStat]) *LookupRepository {
	return &LookupRepository{next: next, runes: runes, lanes: lanes}
}

func (r *LookupRepository) ReplaceRuneStats(ctx context.Context, items []lookup.RuneStat) error {
	defer r.runes.DeletePrefix(ctx, runeStatsPrefix)
	return r.next.ReplaceRuneStats(ctx, items)
}

func (r *LookupRepository) ReplaceLaneStats(ctx context.Context, items []lookup.LaneStat) error {
	defer r.lanes.DeletePrefix(ctx, laneStatsKey)
	return r.next.ReplaceLaneStats(ctx, items)
}

func (r *LookupRepository) ListRuneStatsByChampion(ctx context.Context, championID int) ([]lookup.RuneStat, error) {
	key := runeStatsPrefix + strconv.Itoa(championID)
	items, err := r.runes.GetOrLoad(ctx, key, func(ctx context.Context) ([]lookup.RuneStat, error) {
		items, err := r.next.ListRuneStatsByChampion(ctx, championID)
		if err != nil {
			return nil, err
		}
		return append([]lookup.RuneStat(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]lookup.RuneStat(nil), items...), nil
}

func (r *LookupRepository) ListLaneStats(ctx context.Context) ([]lookup.LaneStat, error) {
	items, err := r.lanes.GetOrLoad(ctx, laneStatsKey, func(ctx context.Context) ([]lookup.LaneStat, error) {
		items, err := r.next.ListLaneStats(ctx)
		if err != nil {
			return nil, err
		}
		return append([]lookup.LaneStat(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]lookup.LaneStat(nil), items...), nil
}
