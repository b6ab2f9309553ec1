package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/lol-dataset/internal/domain/player"
	"github.com/riskibarqy/lol-dataset/internal/platform/logging"
)

type PlayerSyncConfig struct {
	Queue  string
	Amount int
}

// PlayerSyncService rebuilds the harvest roster from the apex ladders.
type PlayerSyncService struct {
	provider MatchDataProvider
	repo     player.Repository
	cfg      PlayerSyncConfig
	logger   *logging.Logger
}

func NewPlayerSyncService(provider MatchDataProvider, repo player.Repository, cfg PlayerSyncConfig, logger *logging.Logger) *PlayerSyncService {
	if cfg.Queue == "" {
		cfg.Queue = rankedSoloQueue
	}
	if cfg.Amount <= 0 {
		cfg.Amount = 300
	}
	return &PlayerSyncService{provider: provider, repo: repo, cfg: cfg, logger: logging.OrNop(logger)}
}

// Refresh reads tiers top-down, each sorted by league points, until the roster is full,
// then replaces the stored roster. Ranks start at 1.
func (s *PlayerSyncService) Refresh(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerSyncService.Refresh")
	defer span.End()

	roster := make([]player.Player, 0, s.cfg.Amount)
	for _, tier := range player.ApexTiers {
		if len(roster) >= s.cfg.Amount {
			break
		}

		entries, err := s.provider.GetLeagueStandings(ctx, s.cfg.Queue, tier)
		if err != nil {
			return nil, fmt.Errorf("get %s standings: %w", tier, err)
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].LeaguePoints > entries[j].LeaguePoints
		})

		for _, e := range entries {
			if len(roster) >= s.cfg.Amount {
				break
			}
			roster = append(roster, player.Player{
				PUUID:        e.PUUID,
				SummonerID:   e.SummonerID,
				Tier:         tier,
				Rank:         len(roster) + 1,
				LeaguePoints: e.LeaguePoints,
				Wins:         e.Wins,
				Losses:       e.Losses,
				Veteran:      e.Veteran,
				HotStreak:    e.HotStreak,
			})
		}
		s.logger.DebugContext(ctx, "ladder tier read", "tier", tier, "entries", len(entries), "roster", len(roster))
	}

	if err := s.repo.Replace(ctx, roster); err != nil {
		return nil, fmt.Errorf("replace roster: %w", err)
	}
	s.logger.InfoContext(ctx, "player roster refreshed", "players", len(roster))
	return roster, nil
}

// PUUIDs returns the stored roster in rank order.
func (s *PlayerSyncService) PUUIDs(ctx context.Context) ([]string, error) {
	puuids, err := s.repo.ListPUUIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return puuids, nil
}
