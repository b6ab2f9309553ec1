package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/riskibarqy/lol-dataset/internal/platform/logging"
)

// Config stores runtime configuration for the pipeline.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	LogLevel       logging.Level
	LogsPath       string

	StoreDriver             string
	DBURL                   string
	DBDisablePreparedBinary bool
	Tables                  Tables

	RiotAPIKey                string
	RiotPlatform              string
	RiotRegion                string
	RiotTimeout               time.Duration
	RiotMaxRetries            int
	RiotCircuitEnabled        bool
	RiotCircuitFailureCount   int
	RiotCircuitOpenTimeout    time.Duration
	RiotCircuitHalfOpenMaxReq int

	GameVersion       string
	QueueID           int
	LeagueQueue       string
	PlayerAmount      int
	MatchesPerPlayer  int
	RecencyWindowDays int
	MatchRetryDelay   time.Duration

	StatsTimeout     time.Duration
	StatsCacheTTL    time.Duration
	LookupWorkers    int
	RuneStatsBaseURL string
	LaneStatsBaseURL string
	CompAnalyzerURL  string
	DDragonBaseURL   string

	DocsPath     string
	DatasetFile  string
	ScheduleCron string

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

// Tables holds the configured relational table names.
type Tables struct {
	Match           string
	Team            string
	PlayerMatch     string
	Player          string
	ChampionMastery string
	RuneStats       string
	ChampionStats   string
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMemory   = "memory"
)

// Load reads the optional .env file (ENV_FILE overrides the path) and then the process environment.
// Variables already present in the environment win over the file.
func Load() (Config, error) {
	if err := loadDotEnv(getEnv("ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	storeDriver, err := parseStoreDriver(getEnv("STORE_DRIVER", StoreDriverPostgres))
	if err != nil {
		return Config{}, err
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storeDriver != StoreDriverMemory && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORE_DRIVER=%s", storeDriver)
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	riotTimeout, err := time.ParseDuration(getEnv("RIOT_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_TIMEOUT: %w", err)
	}
	if riotTimeout <= 0 {
		return Config{}, fmt.Errorf("RIOT_TIMEOUT must be > 0")
	}
	riotMaxRetries, err := getEnvAsInt("RIOT_MAX_RETRIES", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_MAX_RETRIES: %w", err)
	}
	if riotMaxRetries < 0 {
		return Config{}, fmt.Errorf("RIOT_MAX_RETRIES must be >= 0")
	}
	riotCircuitEnabled, err := strconv.ParseBool(getEnv("RIOT_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_CIRCUIT_ENABLED: %w", err)
	}
	riotCircuitFailureCount, err := getEnvAsInt("RIOT_CIRCUIT_FAILURE_COUNT", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if riotCircuitFailureCount <= 0 {
		return Config{}, fmt.Errorf("RIOT_CIRCUIT_FAILURE_COUNT must be > 0")
	}
	riotCircuitOpenTimeout, err := time.ParseDuration(getEnv("RIOT_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if riotCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("RIOT_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	riotCircuitHalfOpenMaxReq, err := getEnvAsInt("RIOT_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if riotCircuitHalfOpenMaxReq <= 0 {
		return Config{}, fmt.Errorf("RIOT_CIRCUIT_HALF_OPEN_MAX_REQ must be > 0")
	}

	gameVersion := strings.TrimSpace(getEnv("GAME_VERSION", "14.20"))
	if gameVersion == "" {
		return Config{}, fmt.Errorf("GAME_VERSION is required")
	}
	queueID, err := getEnvAsInt("QUEUE_ID", 420)
	if err != nil {
		return Config{}, fmt.Errorf("parse QUEUE_ID: %w", err)
	}
	playerAmount, err := getEnvAsInt("PLAYER_AMOUNT", 300)
	if err != nil {
		return Config{}, fmt.Errorf("parse PLAYER_AMOUNT: %w", err)
	}
	if playerAmount <= 0 {
		return Config{}, fmt.Errorf("PLAYER_AMOUNT must be > 0")
	}
	matchesPerPlayer, err := getEnvAsInt("MATCHES_PER_PLAYER", 30)
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCHES_PER_PLAYER: %w", err)
	}
	if matchesPerPlayer <= 0 || matchesPerPlayer > 100 {
		return Config{}, fmt.Errorf("MATCHES_PER_PLAYER must be between 1 and 100")
	}
	recencyWindowDays, err := getEnvAsInt("RECENCY_WINDOW_DAYS", 7)
	if err != nil {
		return Config{}, fmt.Errorf("parse RECENCY_WINDOW_DAYS: %w", err)
	}
	if recencyWindowDays <= 0 {
		return Config{}, fmt.Errorf("RECENCY_WINDOW_DAYS must be > 0")
	}
	matchRetryDelay, err := time.ParseDuration(getEnv("MATCH_RETRY_DELAY", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCH_RETRY_DELAY: %w", err)
	}
	if matchRetryDelay < 0 {
		return Config{}, fmt.Errorf("MATCH_RETRY_DELAY must be >= 0")
	}

	statsTimeout, err := time.ParseDuration(getEnv("STATS_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_TIMEOUT: %w", err)
	}
	if statsTimeout <= 0 {
		return Config{}, fmt.Errorf("STATS_TIMEOUT must be > 0")
	}
	statsCacheTTL, err := time.ParseDuration(getEnv("STATS_CACHE_TTL", "30m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_CACHE_TTL: %w", err)
	}
	lookupWorkers, err := getEnvAsInt("LOOKUP_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOOKUP_WORKERS: %w", err)
	}
	if lookupWorkers <= 0 {
		return Config{}, fmt.Errorf("LOOKUP_WORKERS must be > 0")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	serviceName := getEnv("APP_SERVICE_NAME", "lol-dataset-pipeline")

	return Config{
		AppEnv:         appEnv,
		ServiceName:    serviceName,
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogsPath:       strings.TrimSpace(getEnv("LOGS_PATH", "")),

		StoreDriver:             storeDriver,
		DBURL:                   dbURL,
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		Tables: Tables{
			Match:           getEnv("MATCH_TABLE", "matches"),
			Team:            getEnv("TEAM_TABLE", "teams"),
			PlayerMatch:     getEnv("PLAYER_MATCH_TABLE", "player_matches"),
			Player:          getEnv("PLAYER_TABLE", "players"),
			ChampionMastery: getEnv("CHAMPION_MASTERY_TABLE", "champion_mastery"),
			RuneStats:       getEnv("RUNE_STATS_TABLE", "rune_stats"),
			ChampionStats:   getEnv("CHAMPION_STATS_TABLE", "champion_stats"),
		},

		RiotAPIKey:                strings.TrimSpace(getEnv("RIOT_API_KEY", "")),
		RiotPlatform:              strings.ToLower(getEnv("RIOT_PLATFORM", "br1")),
		RiotRegion:                strings.ToLower(getEnv("RIOT_REGION", "americas")),
		RiotTimeout:               riotTimeout,
		RiotMaxRetries:            riotMaxRetries,
		RiotCircuitEnabled:        riotCircuitEnabled,
		RiotCircuitFailureCount:   riotCircuitFailureCount,
		RiotCircuitOpenTimeout:    riotCircuitOpenTimeout,
		RiotCircuitHalfOpenMaxReq: riotCircuitHalfOpenMaxReq,

		GameVersion:       gameVersion,
		QueueID:           queueID,
		LeagueQueue:       getEnv("LEAGUE_QUEUE", "RANKED_SOLO_5x5"),
		PlayerAmount:      playerAmount,
		MatchesPerPlayer:  matchesPerPlayer,
		RecencyWindowDays: recencyWindowDays,
		MatchRetryDelay:   matchRetryDelay,

		StatsTimeout:     statsTimeout,
		StatsCacheTTL:    statsCacheTTL,
		LookupWorkers:    lookupWorkers,
		RuneStatsBaseURL: getEnv("RUNE_STATS_BASE_URL", "https://leagueofitems.com"),
		LaneStatsBaseURL: getEnv("LANE_STATS_BASE_URL", "https://op.gg"),
		CompAnalyzerURL:  strings.TrimSpace(getEnv("COMP_ANALYZER_URL", "")),
		DDragonBaseURL:   getEnv("DDRAGON_BASE_URL", "https://ddragon.leagueoflegends.com"),

		DocsPath:     getEnv("DOCS_PATH", "docs"),
		DatasetFile:  getEnv("DATASET_FILE", "data.csv"),
		ScheduleCron: getEnv("SCHEDULE_CRON", "0 6 * * *"),

		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:         getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     getEnv("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}, nil
}

func loadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseStoreDriver(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case StoreDriverPostgres, StoreDriverSQLite, StoreDriverMemory:
		return value, nil
	case "postgresql":
		return StoreDriverPostgres, nil
	default:
		return "", fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s, %s", v, StoreDriverPostgres, StoreDriverSQLite, StoreDriverMemory)
	}
}
