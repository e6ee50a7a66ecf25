package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/slfantasy/fantasy-manager/internal/config"
	"github.com/slfantasy/fantasy-manager/internal/domain/jobrun"
	"github.com/slfantasy/fantasy-manager/internal/domain/manager"
	"github.com/slfantasy/fantasy-manager/internal/domain/player"
	"github.com/slfantasy/fantasy-manager/internal/infrastructure/auth"
	"github.com/slfantasy/fantasy-manager/internal/infrastructure/feed"
	"github.com/slfantasy/fantasy-manager/internal/infrastructure/joblock"
	"github.com/slfantasy/fantasy-manager/internal/infrastructure/repository/memory"
	"github.com/slfantasy/fantasy-manager/internal/infrastructure/repository/mongostore"
	"github.com/slfantasy/fantasy-manager/internal/interfaces/httpapi"
	"github.com/slfantasy/fantasy-manager/internal/interfaces/scheduler"
	idgen "github.com/slfantasy/fantasy-manager/internal/platform/id"
	"github.com/slfantasy/fantasy-manager/internal/platform/logging"
	"github.com/slfantasy/fantasy-manager/internal/platform/resilience"
	"github.com/slfantasy/fantasy-manager/internal/usecase"
)

// App holds the HTTP server, the optional scheduler and every resource that
// must be released on shutdown.
type App struct {
	Server    *http.Server
	Scheduler *scheduler.Scheduler
	JobRunner *usecase.JobRunner

	logger  *logging.Logger
	closers []func(context.Context) error
}

type stores struct {
	players   player.Repository
	managers  manager.Repository
	runs      jobrun.Repository
	readiness httpapi.ReadinessCheck
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}

	st, err := a.openStores(ctx, cfg)
	if err != nil {
		_ = a.closeAll(context.WithoutCancel(ctx))
		return nil, err
	}

	locker, err := a.newJobLocker(ctx, cfg)
	if err != nil {
		_ = a.closeAll(context.WithoutCancel(ctx))
		return nil, err
	}

	feedClient := feed.NewClient(feed.ClientConfig{
		URL:        cfg.FeedURL,
		Timeout:    cfg.FeedTimeout,
		MaxRetries: cfg.FeedMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FeedCircuitEnabled,
			FailureThreshold: cfg.FeedCircuitFailureCount,
			OpenTimeout:      cfg.FeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
		},
	})

	ids := idgen.NewUUIDGenerator()
	playerSync := usecase.NewPlayerSyncService(st.players, feedClient, usecase.PlayerSyncConfig{
		LeagueID:     cfg.FeedLeagueID,
		SportsID:     cfg.FeedSportsID,
		MaxWorkers:   cfg.FeedMaxWorkers,
		FetchTimeout: cfg.FeedTimeout,
	}, logger)
	ranking := usecase.NewRankingService(st.managers, st.players, cfg.RankingMaxWorkers, logger)
	managers := usecase.NewManagerService(st.managers, st.players, ids, cfg.ManagerInitialBudget, logger)
	a.JobRunner = usecase.NewJobRunner(playerSync, ranking, st.runs, locker, ids, usecase.JobRunnerConfig{
		LockTTL: cfg.JobLockTTL,
	}, logger)

	if cfg.SchedulerEnabled {
		a.Scheduler, err = scheduler.New(a.JobRunner, scheduler.Config{
			SyncPlayersSpec:  cfg.SyncPlayersCron,
			RankManagersSpec: cfg.RankManagersCron,
		}, logger)
		if err != nil {
			_ = a.closeAll(context.WithoutCancel(ctx))
			return nil, fmt.Errorf("build scheduler: %w", err)
		}
	}

	handler := httpapi.NewHandler(managers, playerSync, a.JobRunner, st.readiness, logger)
	router := httpapi.NewRouter(handler, auth.NewJWTVerifier(cfg.AuthJWTSecret, cfg.AuthJWTIssuer), logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		MetricsEnabled:     cfg.MetricsEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return a, nil
}

func (a *App) openStores(ctx context.Context, cfg config.Config) (stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		a.logger.Warn("using in-memory store, data is lost on restart")
		return stores{
			players:  memory.NewPlayerRepository(memory.SeedPlayers()),
			managers: memory.NewManagerRepository(),
			runs:     memory.NewJobRunRepository(),
		}, nil
	case config.StoreMongo:
		client, err := mongostore.Connect(ctx, mongostore.Config{
			URI:       cfg.MongoURI,
			Database:  cfg.MongoDatabase,
			OpTimeout: cfg.MongoOpTimeout,
			Logger:    a.logger,
		})
		if err != nil {
			return stores{}, fmt.Errorf("connect mongo: %w", err)
		}
		a.closers = append(a.closers, client.Close)

		if err := client.EnsureIndexes(ctx); err != nil {
			return stores{}, fmt.Errorf("ensure mongo indexes: %w", err)
		}

		return stores{
			players:   mongostore.NewPlayerRepository(client),
			managers:  mongostore.NewManagerRepository(client),
			runs:      mongostore.NewJobRunRepository(client),
			readiness: client.Ping,
		}, nil
	default:
		return stores{}, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func (a *App) newJobLocker(ctx context.Context, cfg config.Config) (usecase.JobLocker, error) {
	if cfg.RedisAddr == "" {
		a.logger.Info("job lock is in-process", "reason", "REDIS_ADDR empty")
		return joblock.NewLocalLocker(), nil
	}

	client, err := joblock.NewRedisClient(ctx, joblock.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.closers = append(a.closers, closeRedis(client))

	a.logger.Info("job lock uses redis", "addr", cfg.RedisAddr)
	return joblock.NewRedisLocker(client, a.logger), nil
}

func closeRedis(client *redis.Client) func(context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}

// Start launches the scheduler, if configured. The HTTP server is started by the caller.
func (a *App) Start() {
	if a.Scheduler != nil {
		a.Scheduler.Start()
	}
}

// Shutdown stops the HTTP server, waits for running scheduled jobs and
// releases store connections.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}
	if a.Scheduler != nil {
		select {
		case <-a.Scheduler.Stop().Done():
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("wait for scheduled jobs: %w", ctx.Err()))
		}
	}
	if err := a.closeAll(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) closeAll(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
