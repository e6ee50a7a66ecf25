package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/slfantasy/fantasy-manager/internal/domain/jobrun"
	"github.com/slfantasy/fantasy-manager/internal/platform/logging"
	"github.com/slfantasy/fantasy-manager/internal/usecase"
)

type jobRunner interface {
	RunSyncPlayers(ctx context.Context, trigger jobrun.Trigger) (jobrun.Run, usecase.SyncResult, error)
	RunRankManagers(ctx context.Context, trigger jobrun.Trigger) (jobrun.Run, usecase.RankingResult, error)
}

type Config struct {
	SyncPlayersSpec  string
	RankManagersSpec string
}

// Scheduler triggers the batch jobs on cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	runner jobRunner
	logger *logging.Logger
}

func New(runner jobRunner, cfg Config, logger *logging.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = logging.Default()
	}

	cronLogger := cronLogAdapter{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		runner: runner,
		logger: logger,
	}

	if err := s.add(cfg.SyncPlayersSpec, jobrun.JobSyncPlayers, s.syncPlayers); err != nil {
		return nil, err
	}
	if err := s.add(cfg.RankManagersSpec, jobrun.JobRankManagers, s.rankManagers); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) add(spec string, name jobrun.JobName, fn func()) error {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		s.logger.Info("job schedule disabled", "job", string(name))
		return nil
	}
	if _, err := s.cron.AddFunc(spec, fn); err != nil {
		return fmt.Errorf("schedule %s with %q: %w", name, spec, err)
	}
	s.logger.Info("job scheduled", "job", string(name), "spec", spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and returns a context that is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) syncPlayers() {
	run, result, err := s.runner.RunSyncPlayers(context.Background(), jobrun.TriggerSchedule)
	if err != nil {
		s.logger.Error("scheduled player sync failed", "run_id", run.ID, "error", err)
		return
	}
	s.logger.Info("scheduled player sync finished",
		"run_id", run.ID,
		"status", string(run.Status),
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
}

func (s *Scheduler) rankManagers() {
	run, result, err := s.runner.RunRankManagers(context.Background(), jobrun.TriggerSchedule)
	if err != nil {
		s.logger.Error("scheduled ranking failed", "run_id", run.ID, "error", err)
		return
	}
	s.logger.Info("scheduled ranking finished",
		"run_id", run.ID,
		"status", string(run.Status),
		"updated", result.UpdatedManagers,
		"failed", result.FailedManagers,
	)
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
