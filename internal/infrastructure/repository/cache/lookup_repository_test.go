package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/lol-dataset/internal/domain/lookup"
	"github.com/riskibarqy/lol-dataset/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/lol-dataset/internal/platform/cache"
)

type countingLookupRepository struct {
	lookup.Repository
	runeReads int
	laneReads int
}

func (r *countingLookupRepository) ListRuneStatsByChampion(ctx context.Context, championID int) ([]lookup.RuneStat, error) {
	r.runeReads++
	return r.Repository.ListRuneStatsByChampion(ctx, championID)
}

func (r *countingLookupRepository) ListLaneStats(ctx context.Context) ([]lookup.LaneStat, error) {
	r.laneReads++
	return r.Repository.ListLaneStats(ctx)
}

func TestLookupRepository_CachesUntilReplace(t *testing.T) {
	ctx := t.Context()
	next := &countingLookupRepository{Repository: memory.NewLookupRepository()}
	repo := NewLookupRepository(next,
		basecache.NewStore[[]lookup.RuneStat](time.Minute),
		basecache.NewStore[[]lookup.LaneStat](time.Minute),
	)

	require.NoError(t, repo.ReplaceRuneStats(ctx, []lookup.RuneStat{{ChampionID: 266, RuneID: 8005, WinRate: 51, PickRate: 30}}))
	require.NoError(t, repo.ReplaceLaneStats(ctx, []lookup.LaneStat{{ChampionID: 266, Lane: lookup.LaneTop, WinRate: 50, PickRate: 9}}))

	for i := 0; i < 3; i++ {
		items, err := repo.ListRuneStatsByChampion(ctx, 266)
		require.NoError(t, err)
		require.Len(t, items, 1)

		lanes, err := repo.ListLaneStats(ctx)
		require.NoError(t, err)
		require.Len(t, lanes, 1)
	}
	assert.Equal(t, 1, next.runeReads)
	assert.Equal(t, 1, next.laneReads)

	require.NoError(t, repo.ReplaceRuneStats(ctx, []lookup.RuneStat{
		{ChampionID: 266, RuneID: 8005, WinRate: 52, PickRate: 31},
		{ChampionID: 266, RuneID: 8010, WinRate: -1, PickRate: -1},
	}))
	items, err := repo.ListRuneStatsByChampion(ctx, 266)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, next.runeReads)
}
