package feed

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/slfantasy/fantasy-manager/internal/platform/resilience"
	"github.com/slfantasy/fantasy-manager/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testQuery = usecase.FeedQuery{LeagueID: "125", SportsID: "5", TeamID: "1143", PlayerUID: "isl-pl-103"}

func newTestClient(t *testing.T, handler http.HandlerFunc, retries int) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		HTTPClient:   server.Client(),
		URL:          server.URL,
		MaxRetries:   retries,
		RetryBackoff: time.Millisecond,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})
}

func TestClient_FetchPlayer_DecodesCard(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		raw, _ := io.ReadAll(r.Body)
		var body map[string]string
		require.NoError(t, sonic.Unmarshal(raw, &body))
		assert.Equal(t, "125", body["league_id"])
		assert.Equal(t, "5", body["sports_id"])
		assert.Equal(t, "1143", body["player_team_id"])
		assert.Equal(t, "isl-pl-103", body["player_uid"])

		_, _ = w.Write([]byte(`{"data":{
			"player_uid":"isl-pl-103","full_name":"Sunil Chhetri","player_team":"Bengaluru FC",
			"player_team_id":1143,"jersey":"No. 11","position":"FW","salary":"10.5",
			"total_points":"57","player_status":1,
			"master_data":[{"week":"1","score":12,"season_game_uid":"g-1"},{"week":2,"score":"n/a","season_game_uid":null}]
		}}`))
	}, 0)

	card, err := client.FetchPlayer(context.Background(), testQuery)
	require.NoError(t, err)

	assert.Equal(t, "isl-pl-103", card.PlayerUID)
	assert.Equal(t, "Bengaluru FC", card.TeamName)
	assert.Equal(t, "1143", card.TeamID)
	assert.Equal(t, "11", card.Jersey)
	assert.Equal(t, 10.5, card.Salary)
	assert.Equal(t, int64(57), card.TotalPoints)
	assert.Equal(t, 1, card.Status)
	require.Len(t, card.WeeklyScores, 2)
	assert.Equal(t, int64(12), card.WeeklyScores[0].Score)
	assert.Equal(t, int64(0), card.WeeklyScores[1].Score)
	assert.Equal(t, "", card.WeeklyScores[1].SeasonGameUID)
}

func TestClient_FetchPlayer_MissingDataIsNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"response_code":200,"data":null}`))
	}, 0)

	_, err := client.FetchPlayer(context.Background(), testQuery)
	require.ErrorIs(t, err, usecase.ErrNotFound)
	assert.Equal(t, resilience.CircuitStateClosed, client.breaker.State())
}

func TestClient_FetchPlayer_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"player_uid":"isl-pl-103","total_points":3}}`))
	}, 2)

	card, err := client.FetchPlayer(context.Background(), testQuery)
	require.NoError(t, err)
	assert.Equal(t, int64(3), card.TotalPoints)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_FetchPlayer_OpensCircuit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, 0)

	for i := 0; i < 2; i++ {
		_, err := client.FetchPlayer(context.Background(), testQuery)
		require.Error(t, err)
		assert.True(t, isFeedCircuitFailure(err))
	}

	_, err := client.FetchPlayer(context.Background(), testQuery)
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_FetchPlayer_ClientErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}, 3)

	_, err := client.FetchPlayer(context.Background(), testQuery)
	require.Error(t, err)
	assert.False(t, isFeedCircuitFailure(err))
	assert.False(t, errors.Is(err, usecase.ErrNotFound))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_FetchPlayer_CancelledCallerDoesNotFailSharedRequest(t *testing.T) {
	t.Parallel()

	received := make(chan struct{}, 4)
	release := make(chan struct{})
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		received <- struct{}{}
		<-release
		_, _ = w.Write([]byte(`{"data":{"player_uid":"isl-pl-103","full_name":"Sunil Chhetri","salary":10,"total_points":57}}`))
	}, 0)

	syncCtx, cancelSync := context.WithCancel(context.Background())
	syncErr := make(chan error, 1)
	go func() {
		_, err := client.FetchPlayer(syncCtx, testQuery)
		syncErr <- err
	}()
	<-received

	type outcome struct {
		card usecase.FeedPlayer
		err  error
	}
	adminDone := make(chan outcome, 1)
	go func() {
		card, err := client.FetchPlayer(context.Background(), testQuery)
		adminDone <- outcome{card: card, err: err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelSync()
	require.ErrorIs(t, <-syncErr, context.Canceled)

	close(release)
	got := <-adminDone
	require.NoError(t, got.err)
	assert.Equal(t, "Sunil Chhetri", got.card.FullName)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, resilience.CircuitStateClosed, client.breaker.State())
}

func TestSharedRequestTimeout(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10*time.Second, sharedRequestTimeout(10*time.Second, 0, time.Second))
	assert.Equal(t, 33*time.Second, sharedRequestTimeout(10*time.Second, 2, time.Second))
}
