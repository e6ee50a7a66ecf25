package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/slfantasy/fantasy-manager/internal/domain/player"
	"github.com/slfantasy/fantasy-manager/internal/infrastructure/repository/memory"
	playermock "github.com/slfantasy/fantasy-manager/internal/mocks/domain/player"
	usecasemock "github.com/slfantasy/fantasy-manager/internal/mocks/usecase"
	"github.com/slfantasy/fantasy-manager/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var syncCfg = usecase.PlayerSyncConfig{LeagueID: "125", SportsID: "5", MaxWorkers: 2}

func feedQuery(p player.Player) usecase.FeedQuery {
	return usecase.FeedQuery{LeagueID: "125", SportsID: "5", TeamID: p.TeamID, PlayerUID: p.UID}
}

func TestPlayerSyncService_SyncAllPlayers_IsolatesFailures(t *testing.T) {
	t.Parallel()

	players := []player.Player{
		{UID: "p-1", TeamID: "t-1", FullName: "One", Salary: 5},
		{UID: "p-2", TeamID: "t-1", FullName: "Two", Salary: 6},
		{UID: "p-3", TeamID: "t-2", FullName: "Three", Salary: 7},
	}
	repo := playermock.NewRepository(t)
	feed := usecasemock.NewPlayerFeed(t)

	repo.On("List", mock.Anything).Return(players, nil).Once()
	feed.On("FetchPlayer", mock.Anything, feedQuery(players[0])).
		Return(usecase.FeedPlayer{PlayerUID: "p-1", TotalPoints: 12}, nil).Once()
	feed.On("FetchPlayer", mock.Anything, feedQuery(players[1])).
		Return(usecase.FeedPlayer{}, errors.New("feed timeout")).Once()
	feed.On("FetchPlayer", mock.Anything, feedQuery(players[2])).
		Return(usecase.FeedPlayer{PlayerUID: "p-3", TotalPoints: 30}, nil).Once()
	repo.On("UpdateFeedStats", mock.Anything, "p-1", mock.MatchedBy(func(s player.FeedStats) bool { return s.TotalPoints == 12 })).
		Return(nil).Once()
	repo.On("UpdateFeedStats", mock.Anything, "p-3", mock.MatchedBy(func(s player.FeedStats) bool { return s.TotalPoints == 30 })).
		Return(nil).Once()

	svc := usecase.NewPlayerSyncService(repo, feed, syncCfg, nil)
	result, err := svc.SyncAllPlayers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, result.WorkerCount)
	require.Len(t, result.Items, 3)
	assert.Equal(t, "p-1", result.Items[0].PlayerUID)
	assert.Equal(t, usecase.SyncStatusFailed, result.Items[1].Status)
	assert.Contains(t, result.Items[1].Message, "feed timeout")
	assert.Equal(t, usecase.SyncStatusSuccess, result.Items[2].Status)
}

func TestPlayerSyncService_SyncAllPlayers_EmptyListIsFatal(t *testing.T) {
	t.Parallel()

	repo := playermock.NewRepository(t)
	feed := usecasemock.NewPlayerFeed(t)
	repo.On("List", mock.Anything).Return([]player.Player{}, nil).Once()

	svc := usecase.NewPlayerSyncService(repo, feed, syncCfg, nil)
	_, err := svc.SyncAllPlayers(context.Background())
	require.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestPlayerSyncService_SyncAllPlayers_ListFailure(t *testing.T) {
	t.Parallel()

	repo := playermock.NewRepository(t)
	feed := usecasemock.NewPlayerFeed(t)
	repo.On("List", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	svc := usecase.NewPlayerSyncService(repo, feed, syncCfg, nil)
	_, err := svc.SyncAllPlayers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

type staticFeed map[string]usecase.FeedPlayer

func (f staticFeed) FetchPlayer(_ context.Context, query usecase.FeedQuery) (usecase.FeedPlayer, error) {
	card, ok := f[query.PlayerUID]
	if !ok {
		return usecase.FeedPlayer{}, usecase.ErrNotFound
	}
	return card, nil
}

func TestPlayerSyncService_SyncAllPlayers_ConvergesOnRepeat(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewPlayerRepository([]player.Player{
		{UID: "p-1", TeamID: "t-1", FullName: "One", Salary: 5},
		{UID: "p-2", TeamID: "t-1", FullName: "Two", Salary: 6},
	})
	feed := staticFeed{
		"p-1": {PlayerUID: "p-1", TotalPoints: 21, Status: 1, WeeklyScores: []player.WeeklyScore{
			{Week: 2, Score: 11, SeasonGameUID: "g2"},
			{Week: 1, Score: 10, SeasonGameUID: "g1"},
			{Week: 1, Score: 10, SeasonGameUID: "g1"},
		}},
		"p-2": {PlayerUID: "p-2", TotalPoints: 4},
	}
	svc := usecase.NewPlayerSyncService(repo, feed, syncCfg, nil)

	_, err := svc.SyncAllPlayers(ctx)
	require.NoError(t, err)
	first, err := repo.List(ctx)
	require.NoError(t, err)

	_, err = svc.SyncAllPlayers(ctx)
	require.NoError(t, err)
	second, err := repo.List(ctx)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].TotalPoints, second[i].TotalPoints)
		assert.Equal(t, first[i].Status, second[i].Status)
		assert.Equal(t, first[i].WeeklyScores, second[i].WeeklyScores)
	}
	require.Len(t, first[0].WeeklyScores, 2)
	assert.Equal(t, 1, first[0].WeeklyScores[0].Week)
}

func TestPlayerSyncService_CreatePlayerFromFeed(t *testing.T) {
	t.Parallel()

	input := usecase.CreatePlayerInput{LeagueID: "125", SportsID: "5", TeamID: "1143", PlayerUID: "isl-9"}

	t.Run("missing field", func(t *testing.T) {
		svc := usecase.NewPlayerSyncService(playermock.NewRepository(t), usecasemock.NewPlayerFeed(t), syncCfg, nil)
		bad := input
		bad.TeamID = " "
		_, err := svc.CreatePlayerFromFeed(context.Background(), bad)
		require.ErrorIs(t, err, usecase.ErrInvalidInput)
	})

	t.Run("already exists", func(t *testing.T) {
		repo := playermock.NewRepository(t)
		repo.On("GetByUID", mock.Anything, "isl-9").Return(player.Player{UID: "isl-9"}, true, nil).Once()

		svc := usecase.NewPlayerSyncService(repo, usecasemock.NewPlayerFeed(t), syncCfg, nil)
		_, err := svc.CreatePlayerFromFeed(context.Background(), input)
		require.ErrorIs(t, err, usecase.ErrAlreadyExists)
	})

	t.Run("created with defaults", func(t *testing.T) {
		repo := playermock.NewRepository(t)
		feed := usecasemock.NewPlayerFeed(t)
		repo.On("GetByUID", mock.Anything, "isl-9").Return(player.Player{}, false, nil).Once()
		feed.On("FetchPlayer", mock.Anything, usecase.FeedQuery{LeagueID: "125", SportsID: "5", TeamID: "1143", PlayerUID: "isl-9"}).
			Return(usecase.FeedPlayer{PlayerUID: "isl-9", FullName: "Naorem Roshan", TeamName: "Bengaluru FC", Jersey: "21", Salary: 7.5, TotalPoints: 3}, nil).Once()
		repo.On("Insert", mock.Anything, mock.MatchedBy(func(p player.Player) bool {
			return p.UID == "isl-9" && p.Position == player.DefaultPosition && p.Salary == 7.5 && p.TeamID == "1143"
		})).Return(func(_ context.Context, p player.Player) (player.Player, error) {
			p.ID = "64f0c2"
			return p, nil
		}).Once()

		svc := usecase.NewPlayerSyncService(repo, feed, syncCfg, nil)
		got, err := svc.CreatePlayerFromFeed(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, "64f0c2", got.ID)
		assert.Equal(t, "Naorem Roshan", got.FullName)
	})
}
