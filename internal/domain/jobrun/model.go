package jobrun

import (
	"context"
	"time"
)

type JobName string

const (
	JobSyncPlayers  JobName = "sync-players"
	JobRankManagers JobName = "rank-managers"
)

type Trigger string

const (
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Run is the audit record of one batch job invocation.
type Run struct {
	ID         string
	JobName    JobName
	Trigger    Trigger
	Status     Status
	Succeeded  int
	Failed     int
	Message    string
	StartedAt  time.Time
	FinishedAt *time.Time
}

func (r Run) Finish(status Status, succeeded, failed int, message string, at time.Time) Run {
	r.Status = status
	r.Succeeded = succeeded
	r.Failed = failed
	r.Message = message
	r.FinishedAt = &at
	return r
}

// Repository stores job run records.
type Repository interface {
	Insert(ctx context.Context, run Run) error
	Update(ctx context.Context, run Run) error
	GetByID(ctx context.Context, id string) (Run, bool, error)
}
