package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/slfantasy/fantasy-manager/internal/config"
	"github.com/slfantasy/fantasy-manager/internal/domain/jobrun"
	"github.com/slfantasy/fantasy-manager/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:               config.EnvDev,
		HTTPAddr:             ":0",
		StoreDriver:          config.StoreMemory,
		FeedLeagueID:         "125",
		FeedSportsID:         "5",
		FeedTimeout:          time.Second,
		FeedMaxWorkers:       2,
		ManagerInitialBudget: 100,
		RankingMaxWorkers:    2,
		JobLockTTL:           time.Minute,
		CORSAllowedOrigins:   []string{"*"},
		SchedulerEnabled:     true,
		RankManagersCron:     "@hourly",
		InternalJobToken:     "token",
	}
}

func TestNew_MemoryStore(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	require.NotNil(t, a.Server)
	require.NotNil(t, a.Scheduler)

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Ranking runs entirely against the in-memory store.
	run, result, err := a.JobRunner.RunRankManagers(context.Background(), jobrun.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, jobrun.StatusCompleted, run.Status)
	assert.False(t, result.Success)

	a.Start()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Shutdown(ctx))
}

func TestNew_RejectsUnknownStore(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreDriver = "sqlite"

	_, err := New(context.Background(), cfg, nil)
	require.Error(t, err)
}

func TestNew_RejectsBadCron(t *testing.T) {
	cfg := memoryConfig()
	cfg.SyncPlayersCron = "often"

	_, err := New(context.Background(), cfg, nil)
	require.Error(t, err)
}
