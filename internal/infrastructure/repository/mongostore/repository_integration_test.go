//go:build integration

package mongostore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slfantasy/fantasy-manager/internal/domain/jobrun"
	"github.com/slfantasy/fantasy-manager/internal/domain/manager"
	"github.com/slfantasy/fantasy-manager/internal/domain/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

const mongoImage = "mongo:7.0"

func startMongo(t *testing.T) *Client {
	t.Helper()

	ctx := context.Background()
	container, err := mongodb.Run(ctx, mongoImage)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate mongo container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := Connect(ctx, Config{URI: uri, Database: "fantasy_test", OpTimeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	require.NoError(t, client.EnsureIndexes(ctx))
	return client
}

func TestMongoRepositories(t *testing.T) {
	client := startMongo(t)
	ctx := context.Background()

	players := NewPlayerRepository(client)
	managers := NewManagerRepository(client)
	runs := NewJobRunRepository(client)

	t.Run("player insert is unique by uid", func(t *testing.T) {
		created, err := players.Insert(ctx, player.Player{UID: "isl-1", TeamID: "1143", FullName: "A", Salary: 9})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		_, err = players.Insert(ctx, player.Player{UID: "isl-1", TeamID: "1143", FullName: "B", Salary: 9})
		require.ErrorIs(t, err, player.ErrDuplicateUID)
	})

	t.Run("feed stats update is partial", func(t *testing.T) {
		at := time.Date(2026, 10, 3, 12, 0, 0, 0, time.UTC)
		require.NoError(t, players.UpdateFeedStats(ctx, "isl-1", player.FeedStats{
			TotalPoints:  44,
			Status:       1,
			WeeklyScores: []player.WeeklyScore{{Week: 1, Score: 44, SeasonGameUID: "g1"}},
			UpdatedAt:    at,
		}))

		got, ok, err := players.GetByUID(ctx, "isl-1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(44), got.TotalPoints)
		assert.Equal(t, 9.0, got.Salary)
		assert.Equal(t, "A", got.FullName)
		assert.True(t, got.UpdatedAt.Equal(at))

		listed, err := players.GetByUIDs(ctx, []string{"isl-1", "missing"})
		require.NoError(t, err)
		assert.Len(t, listed, 1)
	})

	t.Run("manager save is versioned", func(t *testing.T) {
		m := manager.New("m-1", "coach@example.com", 100, time.Now().UTC().Truncate(time.Millisecond))
		require.NoError(t, managers.Create(ctx, m))
		require.ErrorIs(t, managers.Create(ctx, manager.New("m-2", "COACH@example.com", 100, time.Now())), manager.ErrDuplicateEmail)

		m.Players = []string{"isl-1"}
		m.BudgetBalance, m.BudgetSpent = 91, 9
		saved, err := managers.Save(ctx, m, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), saved.Version)
		assert.Equal(t, []string{"isl-1"}, saved.Players)

		_, err = managers.Save(ctx, m, 1)
		require.True(t, errors.Is(err, manager.ErrVersionConflict))

		require.NoError(t, managers.UpdateStanding(ctx, "m-1", 44, 1))
		got, ok, err := managers.GetByEmail(ctx, "coach@example.com")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(44), got.TotalPoints)
		assert.Equal(t, 1, got.Rank)
		assert.Equal(t, int64(2), got.Version)
	})

	t.Run("job runs", func(t *testing.T) {
		run := jobrun.Run{ID: "run-1", JobName: jobrun.JobSyncPlayers, Trigger: jobrun.TriggerManual, Status: jobrun.StatusRunning, StartedAt: time.Now().UTC()}
		require.NoError(t, runs.Insert(ctx, run))
		require.NoError(t, runs.Update(ctx, run.Finish(jobrun.StatusCompleted, 5, 1, "done", time.Now().UTC())))

		got, ok, err := runs.GetByID(ctx, "run-1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, jobrun.StatusCompleted, got.Status)
		require.NotNil(t, got.FinishedAt)
	})
}
