package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/lol-dataset/internal/domain/lookup"
	"github.com/riskibarqy/lol-dataset/internal/domain/match"
	"github.com/riskibarqy/lol-dataset/internal/platform/logging"
)

type LookupRefreshResult struct {
	Champions  int
	RuneStats  int
	RuneMisses int
	LaneStats  int
	LaneMisses int
}

type LookupRefreshConfig struct {
	// Workers bounds concurrent champion scrapes. Writes stay on the calling goroutine.
	Workers int
}

// LookupRefreshService rebuilds the per-champion rune and lane statistics tables.
type LookupRefreshService struct {
	static StaticDataProvider
	stats  AuxStatsProvider
	repo   lookup.Repository
	cfg    LookupRefreshConfig
	logger *logging.Logger
}

func NewLookupRefreshService(
	static StaticDataProvider,
	stats AuxStatsProvider,
	repo lookup.Repository,
	cfg LookupRefreshConfig,
	logger *logging.Logger,
) *LookupRefreshService {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &LookupRefreshService{static: static, stats: stats, repo: repo, cfg: cfg, logger: logging.OrNop(logger)}
}

// Refresh scrapes every champion and rune. Failed lookups are stored as -1 so the
// enrichment stage treats them as unknown.
func (s *LookupRefreshService) Refresh(ctx context.Context) (LookupRefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LookupRefreshService.Refresh")
	defer span.End()

	champions, err := s.static.Champions(ctx)
	if err != nil {
		return LookupRefreshResult{}, fmt.Errorf("list champions: %w", err)
	}
	catalog, err := s.static.Runes(ctx)
	if err != nil {
		return LookupRefreshResult{}, fmt.Errorf("list runes: %w", err)
	}
	runeIDs := catalog.All()
	span.SetAttributes(attribute.Int("champions", len(champions)), attribute.Int("runes", len(runeIDs)))

	result := LookupRefreshResult{Champions: len(champions)}
	runeRows := make([][]lookup.RuneStat, len(champions))
	laneRows := make([][]lookup.LaneStat, len(champions))
	var runeMisses, laneMisses atomic.Int32

	pool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return result, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, champion := range champions {
		if err := ctx.Err(); err != nil {
			break
		}
		i, champion := i, champion
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			var misses int32
			runeRows[i], misses = s.scrapeRunes(ctx, champion, runeIDs)
			runeMisses.Add(misses)
			laneRows[i], misses = s.scrapeLanes(ctx, champion)
			laneMisses.Add(misses)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return result, fmt.Errorf("submit champion %s: %w", champion.Name, err)
		}
	}
	workers.Wait()
	if err := ctx.Err(); err != nil {
		return result, err
	}

	result.RuneMisses = int(runeMisses.Load())
	result.LaneMisses = int(laneMisses.Load())
	runeStats := make([]lookup.RuneStat, 0, len(champions)*len(runeIDs))
	laneStats := make([]lookup.LaneStat, 0, len(champions)*len(lookup.Lanes))
	for i := range champions {
		runeStats = append(runeStats, runeRows[i]...)
		laneStats = append(laneStats, laneRows[i]...)
	}

	if err := s.repo.ReplaceRuneStats(ctx, runeStats); err != nil {
		return result, fmt.Errorf("replace rune stats: %w", err)
	}
	result.RuneStats = len(runeStats)
	if err := s.repo.ReplaceLaneStats(ctx, laneStats); err != nil {
		return result, fmt.Errorf("replace lane stats: %w", err)
	}
	result.LaneStats = len(laneStats)

	s.logger.InfoContext(ctx, "lookup tables rebuilt",
		"champions", result.Champions,
		"rune_stats", result.RuneStats,
		"rune_misses", result.RuneMisses,
		"lane_stats", result.LaneStats,
		"lane_misses", result.LaneMisses,
	)
	return result, nil
}

func (s *LookupRefreshService) scrapeRunes(ctx context.Context, champion Champion, runeIDs []int) ([]lookup.RuneStat, int32) {
	var misses int32
	out := make([]lookup.RuneStat, 0, len(runeIDs))
	for _, runeID := range runeIDs {
		stat := lookup.RuneStat{ChampionID: champion.ID, RuneID: runeID, WinRate: match.Unavailable, PickRate: match.Unavailable}
		rate, err := s.stats.RuneStats(ctx, champion.ID, runeID)
		if err != nil {
			misses++
			s.logger.DebugContext(ctx, "rune stats unavailable", "champion", champion.Name, "rune_id", runeID, "error", err)
		} else {
			stat.WinRate, stat.PickRate = rate.WinRate, rate.PickRate
		}
		out = append(out, stat)
	}
	return out, misses
}

func (s *LookupRefreshService) scrapeLanes(ctx context.Context, champion Champion) ([]lookup.LaneStat, int32) {
	var misses int32
	out := make([]lookup.LaneStat, 0, len(lookup.Lanes))
	for _, lane := range lookup.Lanes {
		stat := lookup.LaneStat{ChampionID: champion.ID, Lane: lane, WinRate: match.Unavailable, PickRate: match.Unavailable}
		rate, err := s.stats.LaneStats(ctx, champion.ID, lane)
		if err != nil {
			misses++
			s.logger.DebugContext(ctx, "lane stats unavailable", "champion", champion.Name, "lane", lane, "error", err)
		} else {
			stat.WinRate, stat.PickRate = rate.WinRate, rate.PickRate
		}
		out = append(out, stat)
	}
	return out, misses
}
