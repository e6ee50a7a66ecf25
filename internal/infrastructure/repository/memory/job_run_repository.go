package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/slfantasy/fantasy-manager/internal/domain/jobrun"
)

type JobRunRepository struct {
	mu    sync.RWMutex
	items map[string]jobrun.Run
}

func NewJobRunRepository() *JobRunRepository {
	return &JobRunRepository{items: make(map[string]jobrun.Run)}
}

func (r *JobRunRepository) Insert(_ context.Context, run jobrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[run.ID]; exists {
		return fmt.Errorf("job run %s already exists", run.ID)
	}
	r.items[run.ID] = cloneRun(run)
	return nil
}

func (r *JobRunRepository) Update(_ context.Context, run jobrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[run.ID]; !exists {
		return fmt.Errorf("job run %s not found", run.ID)
	}
	r.items[run.ID] = cloneRun(run)
	return nil
}

func (r *JobRunRepository) GetByID(_ context.Context, id string) (jobrun.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.items[id]
	if !ok {
		return jobrun.Run{}, false, nil
	}
	return cloneRun(run), true, nil
}

func cloneRun(run jobrun.Run) jobrun.Run {
	copied := run
	if run.FinishedAt != nil {
		finishedAt := *run.FinishedAt
		copied.FinishedAt = &finishedAt
	}
	return copied
}
