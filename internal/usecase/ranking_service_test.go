package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slfantasy/fantasy-manager/internal/domain/manager"
	"github.com/slfantasy/fantasy-manager/internal/domain/player"
	managermock "github.com/slfantasy/fantasy-manager/internal/mocks/domain/manager"
	playermock "github.com/slfantasy/fantasy-manager/internal/mocks/domain/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRankingService_RecomputeManagerRankings(t *testing.T) {
	t.Parallel()

	joined := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	managers := []manager.Manager{
		{ID: "m-empty", Players: []string{}, CreatedAt: joined},
		{ID: "m-a", Players: []string{"p-1", "p-2"}, CreatedAt: joined.Add(time.Hour)},
		{ID: "m-b", Players: []string{"p-3"}, CreatedAt: joined},
		{ID: "m-c", Players: []string{"p-4"}, CreatedAt: joined},
	}

	managerRepo := managermock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)

	managerRepo.On("List", mock.Anything).Return(managers, nil).Once()
	playerRepo.On("GetByUIDs", mock.Anything, []string{"p-1", "p-2"}).
		Return([]player.Player{{UID: "p-1", TotalPoints: 20}, {UID: "p-2", TotalPoints: 15}}, nil).Once()
	playerRepo.On("GetByUIDs", mock.Anything, []string{"p-3"}).
		Return([]player.Player{{UID: "p-3", TotalPoints: 35}}, nil).Once()
	playerRepo.On("GetByUIDs", mock.Anything, []string{"p-4"}).
		Return([]player.Player{{UID: "p-4", TotalPoints: 12}}, nil).Once()

	// m-b and m-a tie on 35; m-b joined first.
	managerRepo.On("UpdateStanding", mock.Anything, "m-b", int64(35), 1).Return(nil).Once()
	managerRepo.On("UpdateStanding", mock.Anything, "m-a", int64(35), 2).Return(nil).Once()
	managerRepo.On("UpdateStanding", mock.Anything, "m-c", int64(12), 3).Return(nil).Once()

	svc := NewRankingService(managerRepo, playerRepo, 2, nil)
	result, err := svc.RecomputeManagerRankings(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.UpdatedManagers)
	assert.Equal(t, 0, result.FailedManagers)
	assert.Equal(t, 1, result.Skipped)
}

func TestRankingService_PartialFailures(t *testing.T) {
	t.Parallel()

	managers := []manager.Manager{
		{ID: "m-a", Players: []string{"p-1"}},
		{ID: "m-b", Players: []string{"p-2"}},
		{ID: "m-c", Players: []string{"p-gone"}},
	}

	managerRepo := managermock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)

	managerRepo.On("List", mock.Anything).Return(managers, nil).Once()
	playerRepo.On("GetByUIDs", mock.Anything, []string{"p-1"}).Return(nil, errors.New("socket closed")).Once()
	playerRepo.On("GetByUIDs", mock.Anything, []string{"p-2"}).Return([]player.Player{{UID: "p-2", TotalPoints: 8}}, nil).Once()
	playerRepo.On("GetByUIDs", mock.Anything, []string{"p-gone"}).Return([]player.Player{}, nil).Once()
	managerRepo.On("UpdateStanding", mock.Anything, "m-b", int64(8), 1).Return(nil).Once()

	svc := NewRankingService(managerRepo, playerRepo, 4, nil)
	result, err := svc.RecomputeManagerRankings(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.UpdatedManagers)
	assert.Equal(t, 1, result.FailedManagers)
	assert.Equal(t, 1, result.Skipped)
}

func TestRankingService_NothingToRank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		managers    []manager.Manager
		wantMessage string
	}{
		{name: "no managers", managers: []manager.Manager{}, wantMessage: "no managers found"},
		{name: "only empty rosters", managers: []manager.Manager{{ID: "m-1"}, {ID: "m-2", Players: []string{}}}, wantMessage: "no managers with players to rank"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			managerRepo := managermock.NewRepository(t)
			playerRepo := playermock.NewRepository(t)
			managerRepo.On("List", mock.Anything).Return(tc.managers, nil).Once()

			svc := NewRankingService(managerRepo, playerRepo, 0, nil)
			result, err := svc.RecomputeManagerRankings(context.Background())
			require.NoError(t, err)
			assert.False(t, result.Success)
			assert.Equal(t, tc.wantMessage, result.Message)
			assert.Zero(t, result.UpdatedManagers)
		})
	}
}

func TestRankingService_ListFailure(t *testing.T) {
	t.Parallel()

	managerRepo := managermock.NewRepository(t)
	managerRepo.On("List", mock.Anything).Return(nil, errors.New("server selection timeout")).Once()

	svc := NewRankingService(managerRepo, playermock.NewRepository(t), 0, nil)
	_, err := svc.RecomputeManagerRankings(context.Background())
	require.Error(t, err)
}
