package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slfantasy/fantasy-manager/internal/domain/jobrun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type jobRunDocument struct {
	ID         string     `bson:"_id"`
	JobName    string     `bson:"job_name"`
	Trigger    string     `bson:"trigger"`
	Status     string     `bson:"status"`
	Succeeded  int        `bson:"succeeded"`
	Failed     int        `bson:"failed"`
	Message    string     `bson:"message"`
	StartedAt  time.Time  `bson:"started_at"`
	FinishedAt *time.Time `bson:"finished_at,omitempty"`
}

func jobRunFromDomain(run jobrun.Run) jobRunDocument {
	return jobRunDocument{
		ID:         run.ID,
		JobName:    string(run.JobName),
		Trigger:    string(run.Trigger),
		Status:     string(run.Status),
		Succeeded:  run.Succeeded,
		Failed:     run.Failed,
		Message:    run.Message,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
}

func (d jobRunDocument) toDomain() jobrun.Run {
	return jobrun.Run{
		ID:         d.ID,
		JobName:    jobrun.JobName(d.JobName),
		Trigger:    jobrun.Trigger(d.Trigger),
		Status:     jobrun.Status(d.Status),
		Succeeded:  d.Succeeded,
		Failed:     d.Failed,
		Message:    d.Message,
		StartedAt:  d.StartedAt,
		FinishedAt: d.FinishedAt,
	}
}

type JobRunRepository struct {
	client     *Client
	collection *mongo.Collection
}

func NewJobRunRepository(client *Client) *JobRunRepository {
	return &JobRunRepository{
		client:     client,
		collection: client.Collection(CollectionJobRuns),
	}
}

func (r *JobRunRepository) Insert(ctx context.Context, run jobrun.Run) error {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, jobRunFromDomain(run)); err != nil {
		return fmt.Errorf("insert job run %s: %w", run.ID, err)
	}
	return nil
}

func (r *JobRunRepository) Update(ctx context.Context, run jobrun.Run) error {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": run.ID}, jobRunFromDomain(run))
	if err != nil {
		return fmt.Errorf("replace job run %s: %w", run.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("job run %s not found", run.ID)
	}
	return nil
}

func (r *JobRunRepository) GetByID(ctx context.Context, id string) (jobrun.Run, bool, error) {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	var doc jobRunDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return jobrun.Run{}, false, nil
	}
	if err != nil {
		return jobrun.Run{}, false, fmt.Errorf("find job run %s: %w", id, err)
	}
	return doc.toDomain(), true, nil
}
