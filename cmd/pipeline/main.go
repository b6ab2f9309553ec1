package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/riskibarqy/lol-dataset/internal/app"
	"github.com/riskibarqy/lol-dataset/internal/config"
	"github.com/riskibarqy/lol-dataset/internal/observability"
	"github.com/riskibarqy/lol-dataset/internal/platform/logging"
	"github.com/riskibarqy/lol-dataset/internal/usecase"
)

const usage = `usage:
  pipeline run [players|matches|mastery|lookups|enrich|dataset ...]
  pipeline schedule`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Dir: cfg.LogsPath, Name: "pipeline"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("shutdown uptrace", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		return 1
	}
	defer func() { _ = stopProfiler() }()

	pipeline, closeStore, err := app.NewPipeline(ctx, cfg, logger)
	if err != nil {
		logger.Error("build pipeline", "error", err)
		return 1
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("close store", "error", err)
		}
	}()

	switch args[0] {
	case "run":
		stages, err := usecase.ParseStages(args[1:])
		if err != nil {
			logger.Error("parse stages", "error", err)
			fmt.Fprintln(os.Stderr, usage)
			return 2
		}
		if _, err := pipeline.Run(ctx, stages...); err != nil {
			logger.Error("pipeline run failed", "error", err)
			return 1
		}
		return 0
	case "schedule":
		return schedule(ctx, cfg, pipeline, logger)
	default:
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}
}

func schedule(ctx context.Context, cfg config.Config, pipeline *usecase.PipelineService, logger *logging.Logger) int {
	cronLogger := cronLogAdapter{logger: logger}
	c := cron.New(cron.WithLogger(cronLogger), cron.WithChain(cron.SkipIfStillRunning(cronLogger)))

	if _, err := c.AddFunc(cfg.ScheduleCron, func() {
		if _, err := pipeline.Run(ctx); err != nil {
			logger.Error("scheduled pipeline run failed", "error", err)
		}
	}); err != nil {
		logger.Error("invalid SCHEDULE_CRON", "expr", cfg.ScheduleCron, "error", err)
		return 1
	}

	c.Start()
	logger.Info("pipeline scheduler started", "cron", cfg.ScheduleCron)

	<-ctx.Done()
	logger.Info("pipeline scheduler stopping")
	<-c.Stop().Done()
	return 0
}

type cronLogAdapter struct {
	logger *logging.Logger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Debug("cron: "+msg, keysAndValues...)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...any) {
	a.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
