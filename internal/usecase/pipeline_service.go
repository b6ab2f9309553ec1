package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	idgen "github.com/riskibarqy/lol-dataset/internal/platform/id"
	"github.com/riskibarqy/lol-dataset/internal/platform/logging"
)

type Stage string

const (
	StagePlayers Stage = "players"
	StageMatches Stage = "matches"
	StageMastery Stage = "mastery"
	StageLookups Stage = "lookups"
	StageEnrich  Stage = "enrich"
	StageDataset Stage = "dataset"
)

// DefaultStages is the full refresh in dependency order.
var DefaultStages = []Stage{StagePlayers, StageMatches, StageMastery, StageLookups, StageEnrich, StageDataset}

var pipelineTracer = otel.Tracer("lol-dataset/internal/usecase/pipeline")

// ParseStages validates stage names. No names selects DefaultStages.
func ParseStages(names []string) ([]Stage, error) {
	if len(names) == 0 {
		return append([]Stage(nil), DefaultStages...), nil
	}

	out := make([]Stage, 0, len(names))
	for _, name := range names {
		stage := Stage(strings.ToLower(strings.TrimSpace(name)))
		if !stage.valid() {
			return nil, fmt.Errorf("%w: unknown stage %q", ErrInvalidInput, name)
		}
		out = append(out, stage)
	}
	return out, nil
}

func (s Stage) valid() bool {
	for _, stage := range DefaultStages {
		if s == stage {
			return true
		}
	}
	return false
}

type PipelineStages struct {
	Players *PlayerSyncService
	Matches *MatchSyncService
	Mastery *MasterySyncService
	Lookups *LookupRefreshService
	Enrich  *EnrichmentService
	Dataset *DatasetService
}

type StageResult struct {
	Stage    Stage
	Duration time.Duration
	Summary  any
}

type PipelineRunResult struct {
	RunID  string
	Stages []StageResult
}

// PipelineService runs the stages of one refresh sequentially and stops at the first
// stage that returns an error.
type PipelineService struct {
	stages PipelineStages
	ids    idgen.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewPipelineService(stages PipelineStages, ids idgen.Generator, logger *logging.Logger) *PipelineService {
	if ids == nil {
		ids = idgen.NewUUIDGenerator()
	}
	return &PipelineService{
		stages: stages,
		ids:    ids,
		logger: logging.OrNop(logger),
		now:    time.Now,
	}
}

func (p *PipelineService) Run(ctx context.Context, stages ...Stage) (PipelineRunResult, error) {
	if len(stages) == 0 {
		stages = DefaultStages
	}

	runID := p.ids.NewID()
	logger := p.logger.With("run_id", runID)
	ctx, span := pipelineTracer.Start(ctx, "usecase.PipelineService.Run", attributeRun(runID, stages)...)
	defer span.End()

	result := PipelineRunResult{RunID: runID, Stages: make([]StageResult, 0, len(stages))}
	logger.InfoContext(ctx, "pipeline run started", "stages", stageNames(stages))

	for _, stage := range stages {
		started := p.now()
		summary, err := p.runStage(ctx, stage)
		elapsed := p.now().Sub(started)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.ErrorContext(ctx, "pipeline stage failed", "stage", stage, "duration", elapsed, "error", err)
			return result, fmt.Errorf("stage %s: %w", stage, err)
		}

		result.Stages = append(result.Stages, StageResult{Stage: stage, Duration: elapsed, Summary: summary})
		logger.InfoContext(ctx, "pipeline stage finished", "stage", stage, "duration", elapsed, "summary", summary)
	}

	logger.InfoContext(ctx, "pipeline run finished", "stages", len(result.Stages))
	return result, nil
}

func (p *PipelineService) runStage(ctx context.Context, stage Stage) (any, error) {
	switch stage {
	case StagePlayers:
		if p.stages.Players == nil {
			return nil, stageNotConfigured(stage)
		}
		players, err := p.stages.Players.Refresh(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]int{"players": len(players)}, nil
	case StageMatches:
		if p.stages.Matches == nil || p.stages.Players == nil {
			return nil, stageNotConfigured(stage)
		}
		puuids, err := p.stages.Players.PUUIDs(ctx)
		if err != nil {
			return nil, err
		}
		if len(puuids) == 0 {
			p.logger.WarnContext(ctx, "no players stored, run the players stage first")
		}
		return p.stages.Matches.Sync(ctx, puuids)
	case StageMastery:
		if p.stages.Mastery == nil {
			return nil, stageNotConfigured(stage)
		}
		return p.stages.Mastery.Sync(ctx)
	case StageLookups:
		if p.stages.Lookups == nil {
			return nil, stageNotConfigured(stage)
		}
		return p.stages.Lookups.Refresh(ctx)
	case StageEnrich:
		if p.stages.Enrich == nil {
			return nil, stageNotConfigured(stage)
		}
		return p.stages.Enrich.Enrich(ctx)
	case StageDataset:
		if p.stages.Dataset == nil {
			return nil, stageNotConfigured(stage)
		}
		path, err := p.stages.Dataset.Export(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]string{"path": path}, nil
	default:
		return nil, fmt.Errorf("%w: unknown stage %q", ErrInvalidInput, stage)
	}
}

func stageNotConfigured(stage Stage) error {
	return fmt.Errorf("%w: stage %s is not configured", ErrDependencyUnavailable, stage)
}

func stageNames(stages []Stage) []string {
	out := make([]string, 0, len(stages))
	for _, stage := range stages {
		out = append(out, string(stage))
	}
	return out
}

func attributeRun(runID string, stages []Stage) []trace.SpanStartOption {
	return []trace.SpanStartOption{trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.StringSlice("stages", stageNames(stages)),
	)}
}
