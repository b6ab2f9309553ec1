package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/lol-dataset/internal/domain/mastery"
)

type masteryKey struct {
	puuid      string
	championID int
}

type MasteryRepository struct {
	mu      sync.RWMutex
	byPUUID map[string][]mastery.ChampionMastery
	index   map[masteryKey]struct{}
	order   []string
}

func NewMasteryRepository() *MasteryRepository {
	return &MasteryRepository{
		byPUUID: make(map[string][]mastery.ChampionMastery),
		index:   make(map[masteryKey]struct{}),
	}
}

func (r *MasteryRepository) ListPUUIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...), nil
}

func (r *MasteryRepository) ListByPUUID(_ context.Context, puuid string) ([]mastery.ChampionMastery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]mastery.ChampionMastery(nil), r.byPUUID[puuid]...), nil
}

func (r *MasteryRepository) InsertMany(_ context.Context, items []mastery.ChampionMastery) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		key := masteryKey{puuid: item.PUUID, championID: item.ChampionID}
		if _, ok := r.index[key]; ok {
			continue
		}
		r.index[key] = struct{}{}
		if _, ok := r.byPUUID[item.PUUID]; !ok {
			r.order = append(r.order, item.PUUID)
		}
		r.byPUUID[item.PUUID] = append(r.byPUUID[item.PUUID], item)
	}
	return nil
}
