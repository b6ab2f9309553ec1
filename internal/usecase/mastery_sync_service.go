package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/lol-dataset/internal/domain/mastery"
	"github.com/riskibarqy/lol-dataset/internal/domain/match"
	"github.com/riskibarqy/lol-dataset/internal/platform/logging"
)

type MasterySyncResult struct {
	Candidates int
	Stored     int
	Failed     int
}

// MasterySyncService fetches champion mastery for players that appear in unenriched rows
// and have no mastery stored yet. Stored mastery is never refreshed.
type MasterySyncService struct {
	provider    MatchDataProvider
	matchRepo   match.Repository
	masteryRepo mastery.Repository
	logger      *logging.Logger
}

func NewMasterySyncService(
	provider MatchDataProvider,
	matchRepo match.Repository,
	masteryRepo mastery.Repository,
	logger *logging.Logger,
) *MasterySyncService {
	return &MasterySyncService{
		provider:    provider,
		matchRepo:   matchRepo,
		masteryRepo: masteryRepo,
		logger:      logging.OrNop(logger),
	}
}

func (s *MasterySyncService) Sync(ctx context.Context) (MasterySyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MasterySyncService.Sync")
	defer span.End()

	candidates, err := s.candidates(ctx)
	if err != nil {
		return MasterySyncResult{}, err
	}
	span.SetAttributes(attribute.Int("candidates", len(candidates)))

	result := MasterySyncResult{Candidates: len(candidates)}
	for _, puuid := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		raw, err := s.provider.GetChampionMastery(ctx, puuid)
		if err != nil {
			result.Failed++
			s.logger.WarnContext(ctx, "champion mastery unavailable", "puuid", puuid, "rate_limited", isRateLimited(err), "error", err)
			continue
		}

		items := make([]mastery.ChampionMastery, 0, len(raw))
		for _, r := range raw {
			items = append(items, mastery.ChampionMastery{
				PUUID:                        puuid,
				ChampionID:                   r.ChampionID,
				ChampionLevel:                r.ChampionLevel,
				ChampionPoints:               r.ChampionPoints,
				ChampionPointsSinceLastLevel: r.ChampionPointsSinceLastLevel,
				ChampionPointsUntilNextLevel: r.ChampionPointsUntilNextLevel,
				LastPlayTime:                 r.LastPlayTime,
				TokensEarned:                 r.TokensEarned,
				MilestoneGrade:               mastery.ReduceGrades(r.MilestoneGrades),
			})
		}
		if len(items) == 0 {
			continue
		}
		if err := s.masteryRepo.InsertMany(ctx, items); err != nil {
			result.Failed++
			s.logger.ErrorContext(ctx, "store champion mastery failed", "puuid", puuid, "error", err)
			continue
		}
		result.Stored++
	}

	s.logger.InfoContext(ctx, "mastery sync finished",
		"candidates", result.Candidates,
		"stored", result.Stored,
		"failed", result.Failed,
	)
	return result, nil
}

// candidates lists distinct puuids of unenriched rows in first-seen order, minus those
// that already have mastery rows.
func (s *MasterySyncService) candidates(ctx context.Context) ([]string, error) {
	rows, err := s.matchRepo.ListUnenriched(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unenriched player matches: %w", err)
	}
	known, err := s.masteryRepo.ListPUUIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mastery players: %w", err)
	}

	skip := make(map[string]struct{}, len(known)+len(rows))
	for _, puuid := range known {
		skip[puuid] = struct{}{}
	}
	out := make([]string, 0)
	for _, row := range rows {
		if _, ok := skip[row.PUUID]; ok {
			continue
		}
		skip[row.PUUID] = struct{}{}
		out = append(out, row.PUUID)
	}
	return out, nil
}
