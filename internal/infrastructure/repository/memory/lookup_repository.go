package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/lol-dataset/internal/domain/lookup"
)

type LookupRepository struct {
	mu    sync.RWMutex
	runes map[int][]lookup.RuneStat
	lanes []lookup.LaneStat
}

func NewLookupRepository() *LookupRepository {
	return &LookupRepository{runes: make(map[int][]lookup.RuneStat)}
}

func (r *LookupRepository) ReplaceRuneStats(_ context.Context, items []lookup.RuneStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runes = make(map[int][]lookup.RuneStat)
	for _, item := range items {
		r.runes[item.ChampionID] = append(r.runes[item.ChampionID], item)
	}
	return nil
}

func (r *LookupRepository) ReplaceLaneStats(_ context.Context, items []lookup.LaneStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lanes = append([]lookup.LaneStat(nil), items...)
	return nil
}

func (r *LookupRepository) ListRuneStatsByChampion(_ context.Context, championID int) ([]lookup.RuneStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]lookup.RuneStat(nil), r.runes[championID]...), nil
}

func (r *LookupRepository) ListLaneStats(_ context.Context) ([]lookup.LaneStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]lookup.LaneStat(nil), r.lanes...), nil
}
