package usecase

import (
	"context"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/lol-dataset/internal/domain/match"
	"github.com/riskibarqy/lol-dataset/internal/platform/logging"
	"github.com/riskibarqy/lol-dataset/internal/platform/resilience"
)

type MatchSyncConfig struct {
	TargetVersion    string
	WindowDays       int
	MatchesPerPlayer int
	Queue            int
	// Retry bounds the per-match fetch. The default is one retry after five seconds.
	Retry resilience.RetryPolicy
	Now   func() time.Time
}

// MatchSyncResult counts outcomes of one sync run.
type MatchSyncResult struct {
	Players       int
	Listed        int
	SkippedSeen   int
	Rejected      int
	Unavailable   int
	Inserted      int
	WriteFailures int
}

// MatchSyncService harvests recent matches of the roster into the store. Each match is
// fetched at most once per run and written at most once across runs.
type MatchSyncService struct {
	provider   MatchDataProvider
	scorer     CompositionScorer
	repo       match.Repository
	normalizer *RecordNormalizer
	cfg        MatchSyncConfig
	logger     *logging.Logger
}

func NewMatchSyncService(
	provider MatchDataProvider,
	scorer CompositionScorer,
	repo match.Repository,
	normalizer *RecordNormalizer,
	cfg MatchSyncConfig,
	logger *logging.Logger,
) *MatchSyncService {
	if normalizer == nil {
		normalizer = NewRecordNormalizer()
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 7
	}
	if cfg.MatchesPerPlayer <= 0 {
		cfg.MatchesPerPlayer = 30
	}
	if cfg.Retry.Attempts <= 0 {
		cfg.Retry = resilience.RetryPolicy{Attempts: 2, Delay: 5 * time.Second}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &MatchSyncService{
		provider:   provider,
		scorer:     scorer,
		repo:       repo,
		normalizer: normalizer,
		cfg:        cfg,
		logger:     logging.OrNop(logger),
	}
}

// Sync processes players in order and their listed matches in provider order.
// Per-match failures are logged and skipped; only a failure to read the stored
// frontier aborts the run.
func (s *MatchSyncService) Sync(ctx context.Context, puuids []string) (MatchSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.Sync", attribute.Int("players", len(puuids)))
	defer span.End()

	storedIDs, err := s.repo.ListMatchIDs(ctx)
	if err != nil {
		return MatchSyncResult{}, crerr.Wrap(err, "load stored match ids")
	}
	seen := make(map[string]struct{}, len(storedIDs))
	for _, id := range storedIDs {
		seen[id] = struct{}{}
	}

	// Rejected ids are only remembered for this run; they are re-evaluated next time.
	rejected := newRejectedMatches(len(puuids) * s.cfg.MatchesPerPlayer)
	cutoff := s.cfg.Now().Add(-time.Duration(s.cfg.WindowDays) * 24 * time.Hour).Unix()

	result := MatchSyncResult{Players: len(puuids)}
	for _, puuid := range puuids {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		matchIDs, err := s.provider.ListRecentMatches(ctx, puuid, s.cfg.Queue, s.cfg.MatchesPerPlayer)
		if err != nil {
			s.logProviderFailure(ctx, "list recent matches failed", err, "puuid", puuid)
			continue
		}
		result.Listed += len(matchIDs)

		for _, matchID := range matchIDs {
			if _, ok := seen[matchID]; ok {
				result.SkippedSeen++
				continue
			}
			if rejected.Contains(matchID) {
				result.SkippedSeen++
				continue
			}

			outcome := s.syncMatch(ctx, matchID, cutoff)
			switch outcome {
			case syncOutcomeInserted:
				seen[matchID] = struct{}{}
				result.Inserted++
			case syncOutcomePartial:
				seen[matchID] = struct{}{}
				result.Inserted++
				result.WriteFailures++
			case syncOutcomeRejected:
				rejected.Add(matchID)
				result.Rejected++
			case syncOutcomeUnavailable:
				result.Unavailable++
			case syncOutcomeWriteFailed:
				result.WriteFailures++
			}
		}
	}

	s.logger.InfoContext(ctx, "match sync finished",
		"players", result.Players,
		"listed", result.Listed,
		"inserted", result.Inserted,
		"skipped_seen", result.SkippedSeen,
		"rejected", result.Rejected,
		"unavailable", result.Unavailable,
		"write_failures", result.WriteFailures,
	)
	return result, nil
}

// rejectedMatches remembers ids rejected during one run. The bloom filter answers most
// lookups; its positives are confirmed against the exact set.
type rejectedMatches struct {
	filter *bloom.BloomFilter
	ids    map[string]struct{}
}

func newRejectedMatches(estimate int) *rejectedMatches {
	if estimate <= 0 {
		estimate = 1
	}
	return &rejectedMatches{
		filter: bloom.NewWithEstimates(uint(estimate), 0.001),
		ids:    make(map[string]struct{}),
	}
}

func (r *rejectedMatches) Add(matchID string) {
	r.filter.AddString(matchID)
	r.ids[matchID] = struct{}{}
}

func (r *rejectedMatches) Contains(matchID string) bool {
	if !r.filter.TestString(matchID) {
		return false
	}
	_, ok := r.ids[matchID]
	return ok
}

type syncOutcome int

const (
	syncOutcomeInserted syncOutcome = iota
	syncOutcomePartial
	syncOutcomeRejected
	syncOutcomeUnavailable
	syncOutcomeWriteFailed
)

func (s *MatchSyncService) syncMatch(ctx context.Context, matchID string, cutoff int64) syncOutcome {
	payload, err := s.fetchMatch(ctx, matchID)
	if err != nil {
		s.logProviderFailure(ctx, "match unavailable", err, "match_id", matchID)
		return syncOutcomeUnavailable
	}
	if err := s.normalizer.Validate(ctx, payload); err != nil {
		s.logger.WarnContext(ctx, "match payload rejected", "match_id", matchID, "error", err)
		return syncOutcomeRejected
	}
	if !s.admissible(payload, cutoff) {
		s.logger.DebugContext(ctx, "match outside admission window",
			"match_id", matchID,
			"game_version", payload.Info.GameVersion,
			"game_start", payload.Info.GameStartTimestamp/1000,
		)
		return syncOutcomeRejected
	}
	if payload.Info.EndOfGameResult == match.EndOfGameComplete && !HasSingleWinner(payload) {
		s.logger.WarnContext(ctx, "completed match without a single winner",
			"match_id", matchID,
			"end_of_game_result", payload.Info.EndOfGameResult,
		)
	}

	records, err := s.normalizer.Normalize(ctx, NormalizeInput{
		Payload:     payload,
		TierRanks:   s.resolveTierRanks(ctx, payload.Metadata.Participants),
		Composition: s.resolveComposition(ctx, payload),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "normalize match failed", "match_id", matchID, "error", err)
		return syncOutcomeRejected
	}

	return s.write(ctx, records)
}

// admissible keeps matches of the target patch that started inside the recency window.
func (s *MatchSyncService) admissible(payload RawMatch, cutoff int64) bool {
	if !match.VersionMatches(payload.Info.GameVersion, s.cfg.TargetVersion) {
		return false
	}
	return payload.Info.GameStartTimestamp/1000 >= cutoff
}

func (s *MatchSyncService) fetchMatch(ctx context.Context, matchID string) (RawMatch, error) {
	var payload RawMatch
	attempts, err := resilience.Retry(ctx, s.cfg.Retry, isRetryableProviderError, func(ctx context.Context) error {
		var fetchErr error
		payload, fetchErr = s.provider.GetMatch(ctx, matchID)
		return fetchErr
	})
	if err != nil {
		return RawMatch{}, crerr.Mark(crerr.Wrapf(err, "get match %s after %d attempt(s)", matchID, attempts), ErrProviderUnavailable)
	}
	return payload, nil
}

func (s *MatchSyncService) resolveTierRanks(ctx context.Context, puuids []string) map[string]string {
	out := make(map[string]string, len(puuids))
	for _, puuid := range puuids {
		entries, err := s.provider.GetRankEntries(ctx, puuid)
		if err != nil {
			s.logProviderFailure(ctx, "rank lookup failed", err, "puuid", puuid)
			out[puuid] = match.Missing
			continue
		}
		out[puuid] = TierRankFromEntries(entries)
	}
	return out
}

func (s *MatchSyncService) resolveComposition(ctx context.Context, payload RawMatch) *CompositionScore {
	if s.scorer == nil {
		return nil
	}
	score, err := s.scorer.CompositionScore(ctx, CompositionChampions(payload))
	if err != nil {
		s.logger.WarnContext(ctx, "composition score unavailable", "match_id", payload.Metadata.MatchID, "error", err)
		return &CompositionScore{Risk: match.Unavailable, WinRate: match.Unavailable}
	}
	return &score
}

// write stores Match, then Teams, then PlayerMatch rows. The match counts as seen once its
// Match row is stored, even when later tables fail.
func (s *MatchSyncService) write(ctx context.Context, records match.Records) syncOutcome {
	matchID := records.Match.MatchID
	if err := s.repo.InsertMatch(ctx, records.Match); err != nil {
		s.logger.ErrorContext(ctx, "store match failed", "match_id", matchID, "error", err)
		return syncOutcomeWriteFailed
	}

	outcome := syncOutcomeInserted
	if err := s.repo.InsertTeams(ctx, records.Teams[:]); err != nil {
		s.logger.ErrorContext(ctx, "store teams failed", "match_id", matchID, "error", err)
		outcome = syncOutcomePartial
	}
	if err := s.repo.InsertPlayerMatches(ctx, records.Players); err != nil {
		s.logger.ErrorContext(ctx, "store player matches failed", "match_id", matchID, "error", err)
		outcome = syncOutcomePartial
	}
	return outcome
}

func (s *MatchSyncService) logProviderFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if isRateLimited(err) {
		s.logger.WarnContext(ctx, msg, append(args, "reason", "rate_limited")...)
		return
	}
	s.logger.WarnContext(ctx, msg, args...)
}

func isRetryableProviderError(err error) bool {
	return !isRateLimited(err) && !crerr.Is(err, ErrNotFound) && !crerr.Is(err, ErrInvalidInput)
}
