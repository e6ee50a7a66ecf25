package mongostore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/slfantasy/fantasy-manager/internal/platform/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	CollectionPlayers  = "fantasy_players"
	CollectionManagers = "managers"
	CollectionJobRuns  = "job_runs"

	defaultOpTimeout = 5 * time.Second
)

type Config struct {
	URI       string
	Database  string
	OpTimeout time.Duration
	Logger    *logging.Logger
}

// Client owns the driver connection. Repositories receive it explicitly.
type Client struct {
	client    *mongo.Client
	database  *mongo.Database
	opTimeout time.Duration
	logger    *logging.Logger
}

func Connect(ctx context.Context, cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	if strings.TrimSpace(cfg.Database) == "" {
		return nil, fmt.Errorf("mongo database is required")
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = defaultOpTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI).SetAppName("fantasy-manager"))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	logger.InfoContext(ctx, "mongo connected", "database", cfg.Database)
	return &Client{
		client:    client,
		database:  client.Database(cfg.Database),
		opTimeout: cfg.OpTimeout,
		logger:    logger,
	}, nil
}

func (c *Client) Close(ctx context.Context) error {
	closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.client.Disconnect(closeCtx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	c.logger.Info("mongo connection closed")
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.client.Ping(pingCtx, readpref.Primary())
}

func (c *Client) Collection(name string) *mongo.Collection {
	return c.database.Collection(name)
}

// EnsureIndexes creates the indexes the repositories rely on. It is safe to
// run on every start; migrations create the same indexes.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		CollectionPlayers: {
			{Keys: bson.D{{Key: "player_uid", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_player_uid")},
		},
		CollectionManagers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_manager_email")},
		},
		CollectionJobRuns: {
			{Keys: bson.D{{Key: "job_name", Value: 1}, {Key: "started_at", Value: -1}}, Options: options.Index().SetName("idx_job_runs_job_started")},
		},
	}

	for collection, models := range specs {
		if _, err := c.Collection(collection).Indexes().CreateMany(indexCtx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.opTimeout)
}
