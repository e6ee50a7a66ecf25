package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/slfantasy/fantasy-manager/internal/domain/jobrun"
	idgen "github.com/slfantasy/fantasy-manager/internal/platform/id"
	"github.com/slfantasy/fantasy-manager/internal/platform/logging"
	"github.com/slfantasy/fantasy-manager/internal/platform/metrics"
)

const defaultJobLockTTL = 30 * time.Minute

// JobLocker serializes runs of the same job across callers. The returned
// release func must be called once the job finishes.
type JobLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, acquired bool, err error)
}

type noopJobLocker struct{}

func (noopJobLocker) TryLock(_ context.Context, _ string, _ time.Duration) (func(context.Context) error, bool, error) {
	return func(context.Context) error { return nil }, true, nil
}

func NewNoopJobLocker() JobLocker {
	return noopJobLocker{}
}

type playerSyncer interface {
	SyncAllPlayers(ctx context.Context) (SyncResult, error)
}

type managerRanker interface {
	RecomputeManagerRankings(ctx context.Context) (RankingResult, error)
}

type JobRunnerConfig struct {
	LockTTL time.Duration
}

// JobRunner wraps the batch procedures with locking, audit records and metrics.
type JobRunner struct {
	syncer  playerSyncer
	ranker  managerRanker
	runs    jobrun.Repository
	locker  JobLocker
	idGen   idgen.Generator
	lockTTL time.Duration
	logger  *logging.Logger
	now     func() time.Time
}

func NewJobRunner(
	syncer playerSyncer,
	ranker managerRanker,
	runs jobrun.Repository,
	locker JobLocker,
	idGen idgen.Generator,
	cfg JobRunnerConfig,
	logger *logging.Logger,
) *JobRunner {
	if locker == nil {
		locker = NewNoopJobLocker()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultJobLockTTL
	}

	return &JobRunner{
		syncer:  syncer,
		ranker:  ranker,
		runs:    runs,
		locker:  locker,
		idGen:   idGen,
		lockTTL: cfg.LockTTL,
		logger:  logger,
		now:     time.Now,
	}
}

func (r *JobRunner) RunSyncPlayers(ctx context.Context, trigger jobrun.Trigger) (jobrun.Run, SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobRunner.RunSyncPlayers")
	defer span.End()

	var result SyncResult
	run, err := r.execute(ctx, jobrun.JobSyncPlayers, trigger, func(ctx context.Context) (int, int, string, error) {
		var err error
		result, err = r.syncer.SyncAllPlayers(ctx)
		if err != nil {
			return 0, 0, "", err
		}
		return result.Succeeded, result.Failed, fmt.Sprintf("synced %d of %d players", result.Succeeded, result.Total), nil
	})
	return run, result, err
}

func (r *JobRunner) RunRankManagers(ctx context.Context, trigger jobrun.Trigger) (jobrun.Run, RankingResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobRunner.RunRankManagers")
	defer span.End()

	var result RankingResult
	run, err := r.execute(ctx, jobrun.JobRankManagers, trigger, func(ctx context.Context) (int, int, string, error) {
		var err error
		result, err = r.ranker.RecomputeManagerRankings(ctx)
		if err != nil {
			return 0, 0, "", err
		}
		return result.UpdatedManagers, result.FailedManagers, result.Message, nil
	})
	return run, result, err
}

func (r *JobRunner) GetRun(ctx context.Context, runID string) (jobrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobRunner.GetRun")
	defer span.End()

	runID = strings.TrimSpace(runID)
	if runID == "" {
		return jobrun.Run{}, fmt.Errorf("%w: run id is required", ErrInvalidInput)
	}

	run, exists, err := r.runs.GetByID(ctx, runID)
	if err != nil {
		return jobrun.Run{}, fmt.Errorf("get job run: %w", err)
	}
	if !exists {
		return jobrun.Run{}, fmt.Errorf("%w: job run %s", ErrNotFound, runID)
	}
	return run, nil
}

type jobFunc func(ctx context.Context) (succeeded, failed int, message string, err error)

func (r *JobRunner) execute(ctx context.Context, name jobrun.JobName, trigger jobrun.Trigger, fn jobFunc) (jobrun.Run, error) {
	runID, err := r.idGen.NewID()
	if err != nil {
		return jobrun.Run{}, fmt.Errorf("generate job run id: %w", err)
	}

	start := r.now().UTC()
	run := jobrun.Run{
		ID:        runID,
		JobName:   name,
		Trigger:   trigger,
		Status:    jobrun.StatusRunning,
		StartedAt: start,
	}
	logger := r.logger.With("job", string(name), "trigger", string(trigger), "run_id", runID)

	release, acquired, err := r.locker.TryLock(ctx, "job:"+string(name), r.lockTTL)
	if err != nil {
		return jobrun.Run{}, fmt.Errorf("%w: acquire job lock: %v", ErrDependencyUnavailable, err)
	}
	if !acquired {
		run = run.Finish(jobrun.StatusSkipped, 0, 0, "another run of this job is in progress", r.now().UTC())
		if err := r.runs.Insert(ctx, run); err != nil {
			return jobrun.Run{}, fmt.Errorf("insert job run: %w", err)
		}
		metrics.RecordJobRun(string(name), string(trigger), string(run.Status), 0)
		logger.InfoContext(ctx, "job skipped, already running")
		return run, nil
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			logger.WarnContext(ctx, "release job lock failed", "error", err)
		}
	}()

	if err := r.runs.Insert(ctx, run); err != nil {
		return jobrun.Run{}, fmt.Errorf("insert job run: %w", err)
	}
	logger.InfoContext(ctx, "job started")

	succeeded, failed, message, jobErr := fn(ctx)
	finishedAt := r.now().UTC()
	if jobErr != nil {
		run = run.Finish(jobrun.StatusFailed, succeeded, failed, jobErr.Error(), finishedAt)
	} else {
		run = run.Finish(jobrun.StatusCompleted, succeeded, failed, message, finishedAt)
	}

	if err := r.runs.Update(context.WithoutCancel(ctx), run); err != nil {
		logger.WarnContext(ctx, "update job run failed", "error", err)
	}
	metrics.RecordJobRun(string(name), string(trigger), string(run.Status), finishedAt.Sub(start))

	if jobErr != nil {
		logger.ErrorContext(ctx, "job failed", "error", jobErr)
		return run, jobErr
	}
	logger.InfoContext(ctx, "job finished", "succeeded", succeeded, "failed", failed)
	return run, nil
}
