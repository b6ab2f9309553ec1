package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	_ "modernc.org/sqlite"

	"github.com/riskibarqy/lol-dataset/external/ddragon"
	"github.com/riskibarqy/lol-dataset/external/riot"
	"github.com/riskibarqy/lol-dataset/external/statsweb"
	"github.com/riskibarqy/lol-dataset/internal/config"
	"github.com/riskibarqy/lol-dataset/internal/domain/lookup"
	"github.com/riskibarqy/lol-dataset/internal/domain/mastery"
	"github.com/riskibarqy/lol-dataset/internal/domain/match"
	"github.com/riskibarqy/lol-dataset/internal/domain/player"
	cacherepo "github.com/riskibarqy/lol-dataset/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/lol-dataset/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/lol-dataset/internal/infrastructure/repository/sqldb"
	basecache "github.com/riskibarqy/lol-dataset/internal/platform/cache"
	idgen "github.com/riskibarqy/lol-dataset/internal/platform/id"
	"github.com/riskibarqy/lol-dataset/internal/platform/logging"
	qb "github.com/riskibarqy/lol-dataset/internal/platform/querybuilder"
	"github.com/riskibarqy/lol-dataset/internal/platform/resilience"
	"github.com/riskibarqy/lol-dataset/internal/platform/sqlstore"
	"github.com/riskibarqy/lol-dataset/internal/usecase"
)

type repositories struct {
	match        match.Repository
	datasetMatch match.Repository
	player       player.Repository
	mastery      mastery.Repository
	lookup       lookup.Repository
	close        func() error
}

// NewPipeline wires providers, repositories and services. The returned close func releases
// the database connection.
func NewPipeline(ctx context.Context, cfg config.Config, logger *logging.Logger) (*usecase.PipelineService, func() error, error) {
	logger = logging.OrNop(logger)

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	riotClient := riot.NewClient(riot.ClientConfig{
		APIKey:     cfg.RiotAPIKey,
		Platform:   cfg.RiotPlatform,
		Region:     cfg.RiotRegion,
		Timeout:    cfg.RiotTimeout,
		MaxRetries: cfg.RiotMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.RiotCircuitEnabled,
			FailureThreshold: cfg.RiotCircuitFailureCount,
			OpenTimeout:      cfg.RiotCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.RiotCircuitHalfOpenMaxReq,
		},
	})
	staticData := ddragon.NewClient(ddragon.ClientConfig{
		BaseURL:  cfg.DDragonBaseURL,
		Timeout:  cfg.StatsTimeout,
		CacheTTL: cfg.StatsCacheTTL,
		Logger:   logger,
	})
	statsClient := statsweb.NewClient(statsweb.Config{
		RuneStatsBaseURL: cfg.RuneStatsBaseURL,
		LaneStatsBaseURL: cfg.LaneStatsBaseURL,
		CompAnalyzerURL:  cfg.CompAnalyzerURL,
		Timeout:          cfg.StatsTimeout,
		CacheTTL:         cfg.StatsCacheTTL,
		Logger:           logger,
	}, staticData)

	// Composition columns stay null unless an analyzer is configured.
	var scorer usecase.CompositionScorer
	if cfg.CompAnalyzerURL != "" {
		scorer = statsClient
	}

	stages := usecase.PipelineStages{
		Players: usecase.NewPlayerSyncService(riotClient, repos.player, usecase.PlayerSyncConfig{
			Queue:  cfg.LeagueQueue,
			Amount: cfg.PlayerAmount,
		}, logger),
		Matches: usecase.NewMatchSyncService(riotClient, scorer, repos.match, usecase.NewRecordNormalizer(), usecase.MatchSyncConfig{
			TargetVersion:    cfg.GameVersion,
			WindowDays:       cfg.RecencyWindowDays,
			MatchesPerPlayer: cfg.MatchesPerPlayer,
			Queue:            cfg.QueueID,
			Retry:            resilience.RetryPolicy{Attempts: 2, Delay: cfg.MatchRetryDelay},
		}, logger),
		Mastery: usecase.NewMasterySyncService(riotClient, repos.match, repos.mastery, logger),
		Lookups: usecase.NewLookupRefreshService(staticData, statsClient, repos.lookup, usecase.LookupRefreshConfig{Workers: cfg.LookupWorkers}, logger),
		Enrich:  usecase.NewEnrichmentService(repos.match, repos.mastery, repos.lookup, logger),
		Dataset: usecase.NewDatasetService(repos.datasetMatch, usecase.DatasetConfig{
			DocsPath: cfg.DocsPath,
			FileName: cfg.DatasetFile,
		}, logger),
	}

	logger.Info("pipeline wired",
		"store_driver", cfg.StoreDriver,
		"game_version", cfg.GameVersion,
		"riot_platform", cfg.RiotPlatform,
		"composition_scorer", scorer != nil,
	)
	return usecase.NewPipelineService(stages, idgen.NewUUIDGenerator(), logger), repos.close, nil
}

func openRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		matchRepo := memory.NewMatchRepository()
		return repositories{
			match:        matchRepo,
			datasetMatch: matchRepo,
			player:       memory.NewPlayerRepository(nil),
			mastery:      memory.NewMasteryRepository(),
			lookup:       memory.NewLookupRepository(),
			close:        func() error { return nil },
		}, nil
	}

	db, dialect, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, err
	}

	store := sqlstore.New(db, dialect, logger)
	tables := sqldb.Tables{
		Match:           cfg.Tables.Match,
		Team:            cfg.Tables.Team,
		PlayerMatch:     cfg.Tables.PlayerMatch,
		Player:          cfg.Tables.Player,
		ChampionMastery: cfg.Tables.ChampionMastery,
		RuneStats:       cfg.Tables.RuneStats,
		ChampionStats:   cfg.Tables.ChampionStats,
	}

	return repositories{
		match:        sqldb.NewMatchRepository(store, tables),
		datasetMatch: sqldb.NewMatchRepository(store.ReadOnly(), tables),
		player:       sqldb.NewPlayerRepository(store, tables),
		mastery:      sqldb.NewMasteryRepository(store, tables),
		lookup:       cacherepo.NewLookupRepository(
			sqldb.NewLookupRepository(store, tables),
			basecache.NewStore[[]lookup.RuneStat](cfg.StatsCacheTTL),
			basecache.NewStore[[]lookup.LaneStat](cfg.StatsCacheTTL),
		),
		close: store.Close,
	}, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, qb.Dialect, error) {
	var (
		driver  string
		dsn     string
		dbName  string
		dialect qb.Dialect
		system  string
	)
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		driver, dialect, system = "postgres", qb.DialectPostgres, "postgresql"
		dsn = normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
		dbName = dbNameFromURL(dsn)
	case config.StoreDriverSQLite:
		driver, dialect, system = "sqlite", qb.DialectSQLite, "sqlite"
		dsn = sqliteDSN(cfg.DBURL)
		dbName = sqliteDBName(dsn)
	default:
		return nil, "", fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}

	db, err := otelsqlx.Open(driver, dsn,
		otelsql.WithDBSystem(system),
		otelsql.WithDBName(dbName),
		otelsql.WithQueryFormatter(traceStatement),
	)
	if err != nil {
		return nil, "", fmt.Errorf("open %s database: %w", driver, err)
	}
	if dialect == qb.DialectSQLite {
		// One writer connection; also keeps ":memory:" databases on a single handle.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping %s database: %w", driver, err)
	}
	return db, dialect, nil
}
