package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/lol-dataset/internal/domain/lookup"
	"github.com/riskibarqy/lol-dataset/internal/domain/mastery"
	"github.com/riskibarqy/lol-dataset/internal/domain/match"
	"github.com/riskibarqy/lol-dataset/internal/platform/logging"
)

type EnrichmentResult struct {
	Candidates    int
	Updated       int
	MasteryMisses int
	RuneMisses    int
	LaneMisses    int
}

// EnrichmentService fills the lookup-derived columns of PlayerMatch rows that have not
// been enriched yet. Running it twice changes nothing the second time.
type EnrichmentService struct {
	matchRepo   match.Repository
	masteryRepo mastery.Repository
	lookupRepo  lookup.Repository
	logger      *logging.Logger
}

func NewEnrichmentService(
	matchRepo match.Repository,
	masteryRepo mastery.Repository,
	lookupRepo lookup.Repository,
	logger *logging.Logger,
) *EnrichmentService {
	return &EnrichmentService{
		matchRepo:   matchRepo,
		masteryRepo: masteryRepo,
		lookupRepo:  lookupRepo,
		logger:      logging.OrNop(logger),
	}
}

func (s *EnrichmentService) Enrich(ctx context.Context) (EnrichmentResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EnrichmentService.Enrich")
	defer span.End()

	rows, err := s.matchRepo.ListUnenriched(ctx)
	if err != nil {
		return EnrichmentResult{}, fmt.Errorf("list unenriched player matches: %w", err)
	}
	span.SetAttributes(attribute.Int("candidates", len(rows)))

	result := EnrichmentResult{Candidates: len(rows)}
	if len(rows) == 0 {
		return result, nil
	}

	laneRows, err := s.lookupRepo.ListLaneStats(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "lane stats unavailable, lane columns default to -1", "error", err)
	}
	lanes := indexLaneStats(laneRows)

	masteries := make(map[string]map[int]mastery.ChampionMastery)
	runes := make(map[int]map[int]lookup.RuneStat)

	updates := make([]match.EnrichmentUpdate, 0, len(rows))
	for _, row := range rows {
		byChampion, ok := masteries[row.PUUID]
		if !ok {
			byChampion = s.loadMastery(ctx, row.PUUID)
			masteries[row.PUUID] = byChampion
		}
		byRune, ok := runes[row.ChampionID]
		if !ok {
			byRune = s.loadRuneStats(ctx, row.ChampionID)
			runes[row.ChampionID] = byRune
		}

		enrichment, misses := enrichPlayerMatch(row, byChampion, byRune, lanes)
		result.MasteryMisses += misses.mastery
		result.RuneMisses += misses.rune
		result.LaneMisses += misses.lane

		updates = append(updates, match.EnrichmentUpdate{
			PUUID:      row.PUUID,
			MatchID:    row.MatchID,
			Enrichment: enrichment,
		})
	}

	updated, err := s.matchRepo.UpdateEnrichment(ctx, updates)
	result.Updated = updated
	if err != nil {
		s.logger.ErrorContext(ctx, "enrichment update incomplete", "updated", updated, "candidates", len(updates), "error", err)
	}

	s.logger.InfoContext(ctx, "enrichment finished",
		"candidates", result.Candidates,
		"updated", result.Updated,
		"mastery_misses", result.MasteryMisses,
		"rune_misses", result.RuneMisses,
		"lane_misses", result.LaneMisses,
	)
	return result, nil
}

func (s *EnrichmentService) loadMastery(ctx context.Context, puuid string) map[int]mastery.ChampionMastery {
	items, err := s.masteryRepo.ListByPUUID(ctx, puuid)
	if err != nil {
		s.logger.WarnContext(ctx, "load mastery failed", "puuid", puuid, "error", err)
		return nil
	}
	out := make(map[int]mastery.ChampionMastery, len(items))
	for _, item := range items {
		out[item.ChampionID] = item
	}
	return out
}

func (s *EnrichmentService) loadRuneStats(ctx context.Context, championID int) map[int]lookup.RuneStat {
	items, err := s.lookupRepo.ListRuneStatsByChampion(ctx, championID)
	if err != nil {
		s.logger.WarnContext(ctx, "load rune stats failed", "champion_id", championID, "error", err)
		return nil
	}
	out := make(map[int]lookup.RuneStat, len(items))
	for _, item := range items {
		out[item.RuneID] = item
	}
	return out
}

type laneKey struct {
	championID int
	lane       string
}

func indexLaneStats(items []lookup.LaneStat) map[laneKey]lookup.LaneStat {
	out := make(map[laneKey]lookup.LaneStat, len(items))
	for _, item := range items {
		out[laneKey{championID: item.ChampionID, lane: item.Lane}] = item
	}
	return out
}

type enrichmentMisses struct {
	mastery int
	rune    int
	lane    int
}

// enrichPlayerMatch derives the enrichment columns of one row. Every column is set; lookups
// without a usable row yield -1.
func enrichPlayerMatch(
	row match.PlayerMatch,
	masteries map[int]mastery.ChampionMastery,
	runes map[int]lookup.RuneStat,
	lanes map[laneKey]lookup.LaneStat,
) (match.Enrichment, enrichmentMisses) {
	var misses enrichmentMisses

	level, points := int64(match.Unavailable), int64(match.Unavailable)
	if m, ok := masteries[row.ChampionID]; ok {
		level, points = m.ChampionLevel, m.ChampionPoints
	} else {
		misses.mastery++
	}

	runeWin, runePick := averageRuneStats(row.Perks.RuneIDs(), runes)
	if runeWin < 0 && runePick < 0 {
		misses.rune++
	}

	laneWin, lanePick := float64(match.Unavailable), float64(match.Unavailable)
	if lane, ok := lookup.LaneForPosition(row.IndividualPosition); ok {
		if stat, ok := lanes[laneKey{championID: row.ChampionID, lane: lane}]; ok {
			laneWin, lanePick = stat.WinRate, stat.PickRate
		}
	}
	if laneWin < 0 && lanePick < 0 {
		misses.lane++
	}

	return match.Enrichment{
		ChampionLevel:    &level,
		ChampionPoints:   &points,
		RuneWinRate:      &runeWin,
		RunePickRate:     &runePick,
		ChampionWinRate:  &laneWin,
		ChampionPickRate: &lanePick,
	}, misses
}

// averageRuneStats averages win and pick rates separately over the runes that have a
// value; a rate with no contributing rune is -1.
func averageRuneStats(runeIDs [6]int, stats map[int]lookup.RuneStat) (float64, float64) {
	var winSum, pickSum float64
	var winCount, pickCount int
	for _, id := range runeIDs {
		stat, ok := stats[id]
		if !ok {
			continue
		}
		if stat.WinRate >= 0 {
			winSum += stat.WinRate
			winCount++
		}
		if stat.PickRate >= 0 {
			pickSum += stat.PickRate
			pickCount++
		}
	}

	win, pick := float64(match.Unavailable), float64(match.Unavailable)
	if winCount > 0 {
		win = winSum / float64(winCount)
	}
	if pickCount > 0 {
		pick = pickSum / float64(pickCount)
	}
	return win, pick
}
