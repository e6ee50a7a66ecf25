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
	"github.com/robfig/cron/v3"
	"github.com/slfantasy/fantasy-manager/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string
	SwaggerEnabled     bool
	MetricsEnabled     bool

	StoreDriver    string
	MongoURI       string
	MongoDatabase  string
	MongoOpTimeout time.Duration

	FeedURL                   string
	FeedLeagueID              string
	FeedSportsID              string
	FeedTimeout               time.Duration
	FeedMaxRetries            int
	FeedMaxWorkers            int
	FeedCircuitEnabled        bool
	FeedCircuitFailureCount   int
	FeedCircuitOpenTimeout    time.Duration
	FeedCircuitHalfOpenMaxReq int

	ManagerInitialBudget float64
	RankingMaxWorkers    int

	SchedulerEnabled bool
	SyncPlayersCron  string
	RankManagersCron string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	JobLockTTL       time.Duration
	InternalJobToken string

	AuthJWTSecret string
	AuthJWTIssuer string

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
}

// Load reads configuration from the environment. Variables from the file
// named by APP_ENV_FILE (default .env) are applied first without overriding
// values already set.
func Load() (Config, error) {
	if err := loadDotEnv(getEnv("APP_ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "fantasy-manager-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		StoreDriver:        strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreMongo))),
		MongoURI:           strings.TrimSpace(getEnv("MONGO_URI", "mongodb://localhost:27017")),
		MongoDatabase:      strings.TrimSpace(getEnv("MONGO_DATABASE", "fantasy_manager")),
		FeedURL:            strings.TrimSpace(getEnv("FEED_URL", "")),
		FeedLeagueID:       strings.TrimSpace(getEnv("FEED_LEAGUE_ID", "125")),
		FeedSportsID:       strings.TrimSpace(getEnv("FEED_SPORTS_ID", "5")),
		SyncPlayersCron:    strings.TrimSpace(getEnv("SYNC_PLAYERS_CRON", "*/30 * * * *")),
		RankManagersCron:   strings.TrimSpace(getEnv("RANK_MANAGERS_CRON", "5 * * * *")),
		RedisAddr:          strings.TrimSpace(getEnv("REDIS_ADDR", "")),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		AuthJWTSecret:      getEnv("AUTH_JWT_SECRET", ""),
		AuthJWTIssuer:      strings.TrimSpace(getEnv("AUTH_JWT_ISSUER", "")),
		UptraceDSN:         strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		PprofAddr:          strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),

		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	p := parser{}
	cfg.ReadTimeout = p.duration("APP_READ_TIMEOUT", "10s")
	cfg.WriteTimeout = p.duration("APP_WRITE_TIMEOUT", "120s")
	cfg.SwaggerEnabled = p.boolean("SWAGGER_ENABLED", swaggerDefault)
	cfg.MetricsEnabled = p.boolean("METRICS_ENABLED", "true")
	cfg.MongoOpTimeout = p.duration("MONGO_OP_TIMEOUT", "5s")
	cfg.FeedTimeout = p.duration("FEED_TIMEOUT", "10s")
	cfg.FeedMaxRetries = p.integer("FEED_MAX_RETRIES", 2)
	cfg.FeedMaxWorkers = p.integer("FEED_MAX_WORKERS", 8)
	cfg.FeedCircuitEnabled = p.boolean("FEED_CIRCUIT_ENABLED", "true")
	cfg.FeedCircuitFailureCount = p.integer("FEED_CIRCUIT_FAILURE_COUNT", 5)
	cfg.FeedCircuitOpenTimeout = p.duration("FEED_CIRCUIT_OPEN_TIMEOUT", "15s")
	cfg.FeedCircuitHalfOpenMaxReq = p.integer("FEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	cfg.ManagerInitialBudget = p.float("MANAGER_INITIAL_BUDGET", 100)
	cfg.RankingMaxWorkers = p.integer("RANKING_MAX_WORKERS", 8)
	cfg.SchedulerEnabled = p.boolean("SCHEDULER_ENABLED", "false")
	cfg.RedisDB = p.integer("REDIS_DB", 0)
	cfg.JobLockTTL = p.duration("JOB_LOCK_TTL", "30m")
	cfg.UptraceEnabled = p.boolean("UPTRACE_ENABLED", "false")
	cfg.PyroscopeEnabled = p.boolean("PYROSCOPE_ENABLED", "false")
	cfg.PyroscopeUploadRate = p.duration("PYROSCOPE_UPLOAD_RATE", "15s")
	cfg.PprofEnabled = p.boolean("PPROF_ENABLED", "false")
	if p.err != nil {
		return Config{}, p.err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	positive := map[string]time.Duration{
		"APP_READ_TIMEOUT":          c.ReadTimeout,
		"APP_WRITE_TIMEOUT":         c.WriteTimeout,
		"MONGO_OP_TIMEOUT":          c.MongoOpTimeout,
		"FEED_TIMEOUT":              c.FeedTimeout,
		"FEED_CIRCUIT_OPEN_TIMEOUT": c.FeedCircuitOpenTimeout,
		"JOB_LOCK_TTL":              c.JobLockTTL,
		"PYROSCOPE_UPLOAD_RATE":     c.PyroscopeUploadRate,
	}
	for key, value := range positive {
		if value <= 0 {
			return fmt.Errorf("%s must be > 0", key)
		}
	}

	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return fmt.Errorf("MONGO_URI and MONGO_DATABASE are required when STORE_DRIVER=%s", StoreMongo)
		}
	case StoreMemory:
		if c.AppEnv == EnvProd {
			return fmt.Errorf("STORE_DRIVER=%s is not allowed when APP_ENV=%s", StoreMemory, EnvProd)
		}
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s", c.StoreDriver, StoreMongo, StoreMemory)
	}

	if c.FeedLeagueID == "" || c.FeedSportsID == "" {
		return fmt.Errorf("FEED_LEAGUE_ID and FEED_SPORTS_ID cannot be empty")
	}
	if c.FeedMaxRetries < 0 {
		return fmt.Errorf("FEED_MAX_RETRIES must be >= 0")
	}
	if c.FeedMaxWorkers < 1 {
		return fmt.Errorf("FEED_MAX_WORKERS must be >= 1")
	}
	if c.FeedCircuitFailureCount < 1 {
		return fmt.Errorf("FEED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if c.FeedCircuitHalfOpenMaxReq < 1 {
		return fmt.Errorf("FEED_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	if c.ManagerInitialBudget <= 0 {
		return fmt.Errorf("MANAGER_INITIAL_BUDGET must be > 0")
	}
	if c.RankingMaxWorkers < 1 {
		return fmt.Errorf("RANKING_MAX_WORKERS must be >= 1")
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB must be >= 0")
	}

	if c.SchedulerEnabled {
		for key, spec := range map[string]string{"SYNC_PLAYERS_CRON": c.SyncPlayersCron, "RANK_MANAGERS_CRON": c.RankManagersCron} {
			if spec == "" {
				continue
			}
			if _, err := cron.ParseStandard(spec); err != nil {
				return fmt.Errorf("parse %s: %w", key, err)
			}
		}
	}

	if c.AppEnv == EnvProd {
		if strings.TrimSpace(c.AuthJWTSecret) == "" {
			return fmt.Errorf("AUTH_JWT_SECRET is required when APP_ENV=%s", EnvProd)
		}
		if c.InternalJobToken == "" {
			return fmt.Errorf("INTERNAL_JOB_TOKEN is required when APP_ENV=%s", EnvProd)
		}
	}

	if c.UptraceEnabled && c.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if c.PyroscopeEnabled {
		if c.PyroscopeServerAddress == "" {
			return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
		}
		if c.PyroscopeAppName == "" {
			return fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
		}
	}
	if c.PprofEnabled && c.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	if len(c.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return nil
}

func loadDotEnv(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// parser keeps the first parse error so Load can read every key in sequence.
type parser struct {
	err error
}

func (p *parser) duration(key, fallback string) time.Duration {
	if p.err != nil {
		return 0
	}
	v, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		p.err = fmt.Errorf("parse %s: %w", key, err)
	}
	return v
}

func (p *parser) boolean(key, fallback string) bool {
	if p.err != nil {
		return false
	}
	v, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		p.err = fmt.Errorf("parse %s: %w", key, err)
	}
	return v
}

func (p *parser) integer(key string, fallback int) int {
	if p.err != nil {
		return 0
	}
	v, err := getEnvAsInt(key, fallback)
	if err != nil {
		p.err = fmt.Errorf("parse %s: %w", key, err)
	}
	return v
}

func (p *parser) float(key string, fallback float64) float64 {
	if p.err != nil {
		return 0
	}
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.err = fmt.Errorf("parse %s: %w", key, err)
	}
	return v
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

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
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
