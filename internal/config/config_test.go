package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/slfantasy/fantasy-manager/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("APP_ENV", EnvDev)
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, "fantasy_manager", cfg.MongoDatabase)
	assert.Equal(t, 5*time.Second, cfg.MongoOpTimeout)
	assert.Equal(t, "125", cfg.FeedLeagueID)
	assert.Equal(t, "5", cfg.FeedSportsID)
	assert.Equal(t, 10*time.Second, cfg.FeedTimeout)
	assert.Equal(t, 8, cfg.FeedMaxWorkers)
	assert.Equal(t, 100.0, cfg.ManagerInitialBudget)
	assert.Equal(t, 30*time.Minute, cfg.JobLockTTL)
	assert.Equal(t, logging.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.SwaggerEnabled)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.SchedulerEnabled)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("MANAGER_INITIAL_BUDGET", "120.5")
	t.Setenv("FEED_MAX_WORKERS", "16")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 120.5, cfg.ManagerInitialBudget)
	assert.Equal(t, 16, cfg.FeedMaxWorkers)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, logging.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"bad duration":         {"FEED_TIMEOUT": "soon"},
		"zero duration":        {"MONGO_OP_TIMEOUT": "0s"},
		"bad bool":             {"SCHEDULER_ENABLED": "maybe"},
		"bad int":              {"FEED_MAX_RETRIES": "two"},
		"negative retries":     {"FEED_MAX_RETRIES": "-1"},
		"zero budget":          {"MANAGER_INITIAL_BUDGET": "0"},
		"unknown store":        {"STORE_DRIVER": "postgres"},
		"uptrace without dsn":  {"UPTRACE_ENABLED": "true"},
		"bad cron":             {"SCHEDULER_ENABLED": "true", "SYNC_PLAYERS_CRON": "every minute"},
		"memory store in prod": {"APP_ENV": EnvProd, "STORE_DRIVER": StoreMemory, "AUTH_JWT_SECRET": "s", "INTERNAL_JOB_TOKEN": "t"},
		"prod without secret":  {"APP_ENV": EnvProd, "INTERNAL_JOB_TOKEN": "t"},
		"prod without token":   {"APP_ENV": EnvProd, "AUTH_JWT_SECRET": "s"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_ProdDisablesSwagger(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("INTERNAL_JOB_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.SwaggerEnabled)
}

func TestLoad_DotEnvFile(t *testing.T) {
	setBaseEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("FEED_LEAGUE_ID=200\nRANKING_MAX_WORKERS=3\n"), 0o600))
	t.Setenv("APP_ENV_FILE", path)
	// Values already in the environment win over the file.
	t.Setenv("RANKING_MAX_WORKERS", "4")
	// Registers restoration of FEED_LEAGUE_ID, which the file load sets.
	t.Setenv("FEED_LEAGUE_ID", "")
	require.NoError(t, os.Unsetenv("FEED_LEAGUE_ID"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "200", cfg.FeedLeagueID)
	assert.Equal(t, 4, cfg.RankingMaxWorkers)
}
