package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/lol-dataset/internal/domain/match"
)

type teamKey struct {
	matchID string
	teamID  int
}

type playerMatchKey struct {
	puuid   string
	matchID string
}

// MatchRepository keeps rows in insertion order and skips duplicate keys like the SQL store.
type MatchRepository struct {
	mu sync.RWMutex

	matches      []match.Match
	matchIndex   map[string]struct{}
	teams        []match.Team
	teamIndex    map[teamKey]struct{}
	players      []match.PlayerMatch
	playersIndex map[playerMatchKey]int
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		matchIndex:   make(map[string]struct{}),
		teamIndex:    make(map[teamKey]struct{}),
		playersIndex: make(map[playerMatchKey]int),
	}
}

func (r *MatchRepository) ListMatchIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, m.MatchID)
	}
	return out, nil
}

func (r *MatchRepository) InsertMatch(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.matchIndex[m.MatchID]; ok {
		return nil
	}
	m.Participants = append([]string(nil), m.Participants...)
	r.matchIndex[m.MatchID] = struct{}{}
	r.matches = append(r.matches, m)
	return nil
}

func (r *MatchRepository) InsertTeams(_ context.Context, teams []match.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range teams {
		key := teamKey{matchID: t.MatchID, teamID: t.TeamID}
		if _, ok := r.teamIndex[key]; ok {
			continue
		}
		r.teamIndex[key] = struct{}{}
		r.teams = append(r.teams, t)
	}
	return nil
}

func (r *MatchRepository) InsertPlayerMatches(_ context.Context, players []match.PlayerMatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range players {
		key := playerMatchKey{puuid: p.PUUID, matchID: p.MatchID}
		if _, ok := r.playersIndex[key]; ok {
			continue
		}
		r.playersIndex[key] = len(r.players)
		r.players = append(r.players, p)
	}
	return nil
}

func (r *MatchRepository) ListUnenriched(_ context.Context) ([]match.PlayerMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.PlayerMatch, 0)
	for _, p := range r.players {
		if !p.Enrichment.Done() {
			out = append(out, p)
		}
	}
	return out, nil
}

// UpdateEnrichment only touches rows that are still unenriched.
func (r *MatchRepository) UpdateEnrichment(_ context.Context, updates []match.EnrichmentUpdate) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := 0
	for _, u := range updates {
		idx, ok := r.playersIndex[playerMatchKey{puuid: u.PUUID, matchID: u.MatchID}]
		if !ok || r.players[idx].Enrichment.Done() {
			continue
		}
		r.players[idx].Enrichment = u.Enrichment
		changed++
	}
	return changed, nil
}

func (r *MatchRepository) ListMatches(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]match.Match(nil), r.matches...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out, nil
}

func (r *MatchRepository) ListTeams(_ context.Context) ([]match.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]match.Team(nil), r.teams...), nil
}

func (r *MatchRepository) ListPlayerMatches(_ context.Context) ([]match.PlayerMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]match.PlayerMatch(nil), r.players...), nil
}
