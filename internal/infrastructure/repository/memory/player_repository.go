package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/lol-dataset/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players []player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	return &PlayerRepository{players: append([]player.Player(nil), players...)}
}

func (r *PlayerRepository) Replace(_ context.Context, players []player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players = append([]player.Player(nil), players...)
	return nil
}

func (r *PlayerRepository) ListPUUIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p.PUUID)
	}
	return out, nil
}

// List returns the roster in rank order.
func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]player.Player(nil), r.players...), nil
}
