package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/slfantasy/fantasy-manager/internal/platform/logging"
	"github.com/slfantasy/fantasy-manager/internal/platform/metrics"
	"github.com/slfantasy/fantasy-manager/internal/platform/resilience"
	"github.com/slfantasy/fantasy-manager/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultURL     = "https://fantasy.indiansuperleague.com/fantasy/sl_roster/get_playercard_sl_master_data"
	breakerName    = "player-feed"
	maxPayloadSize = 2 << 20
)

var errFeedTransient = crerr.New("player feed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	URL            string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches player cards from the league's roster feed.
type Client struct {
	httpClient     *http.Client
	url            string
	maxRetries     int
	retryBackoff   time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	sharedTimeout  time.Duration
	flight         resilience.SingleFlight[[]byte]
}

type playerCardRequest struct {
	LeagueID     string `json:"league_id"`
	SportsID     string `json:"sports_id"`
	PlayerTeamID string `json:"player_team_id"`
	PlayerUID    string `json:"player_uid"`
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	feedURL := strings.TrimSpace(cfg.URL)
	if feedURL == "" {
		feedURL = DefaultURL
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = func(name string, from, to resilience.CircuitState) {
			metrics.SetCircuitOpen(name, to != resilience.CircuitStateClosed)
			logger.Warn("feed circuit breaker state changed", "breaker", name, "from", string(from), "to", string(to))
		}
	}

	return &Client{
		httpClient:     httpClient,
		url:            feedURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		retryBackoff:   cfg.RetryBackoff,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerName, breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
		sharedTimeout:  sharedRequestTimeout(httpClient.Timeout, maxInt(cfg.MaxRetries, 0), cfg.RetryBackoff),
	}
}

// FetchPlayer returns the decoded player card. A card without data yields
// usecase.ErrNotFound; an open breaker yields usecase.ErrDependencyUnavailable.
func (c *Client) FetchPlayer(ctx context.Context, query usecase.FeedQuery) (usecase.FeedPlayer, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "feed circuit breaker rejected request", "state", string(c.breaker.State()), "player_uid", query.PlayerUID)
			metrics.FeedCallsTotal.WithLabelValues("rejected").Inc()
			return usecase.FeedPlayer{}, fmt.Errorf("%w: player feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	// Callers sharing a key wait on their own ctx; the request itself is not tied to any of them.
	key := query.LeagueID + "|" + query.SportsID + "|" + query.TeamID + "|" + query.PlayerUID
	resultCh := c.flight.DoChan(key, func() ([]byte, error) {
		reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.sharedTimeout)
		defer cancel()

		start := time.Now()
		raw, reqErr := c.executeRequest(reqCtx, query)
		status := "success"
		if reqErr != nil {
			status = "failed"
		}
		metrics.RecordFeedCall(status, start)
		if c.circuitEnabled {
			c.breaker.Record(reqErr, isFeedCircuitFailure)
		}
		return raw, reqErr
	})

	var raw []byte
	select {
	case <-ctx.Done():
		return usecase.FeedPlayer{}, fmt.Errorf("wait for player card %s: %w", query.PlayerUID, ctx.Err())
	case res := <-resultCh:
		if res.Err != nil {
			return usecase.FeedPlayer{}, res.Err
		}
		raw = res.Val
	}

	return decodePlayerCard(raw, query.PlayerUID)
}

func decodePlayerCard(raw []byte, playerUID string) (usecase.FeedPlayer, error) {
	var envelope playerCardEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return usecase.FeedPlayer{}, fmt.Errorf("decode player card: %w", err)
	}
	if envelope.Data == nil {
		return usecase.FeedPlayer{}, fmt.Errorf("%w: no player card for %s", usecase.ErrNotFound, playerUID)
	}

	record := *envelope.Data
	if record.PlayerUID == "" {
		record.PlayerUID = flexString(playerUID)
	}
	if err := record.validate(); err != nil {
		return usecase.FeedPlayer{}, fmt.Errorf("invalid player card for %s: %w", playerUID, err)
	}
	return record.toFeedPlayer(), nil
}

func (c *Client) executeRequest(ctx context.Context, query usecase.FeedQuery) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(playerCardRequest{
		LeagueID:     query.LeagueID,
		SportsID:     query.SportsID,
		PlayerTeamID: query.TeamID,
		PlayerUID:    query.PlayerUID,
	}); err != nil {
		return nil, fmt.Errorf("encode player card request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(buf.B))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("content-type", "application/json")
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Mark(fmt.Errorf("send request: %w", err), errFeedTransient)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Mark(fmt.Errorf("read response body: %w", readErr), errFeedTransient)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Mark(fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw)), errFeedTransient)
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: feed status=404 for player %s", usecase.ErrNotFound, query.PlayerUID)
			default:
				return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries || ctx.Err() != nil {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, crerr.Mark(ctx.Err(), errFeedTransient)
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.Mark(fmt.Errorf("feed request failed"), errFeedTransient)
	}
	c.logger.WarnContext(ctx, "player feed request failed", "player_uid", query.PlayerUID, "error", lastErr)
	return nil, lastErr
}

// sharedRequestTimeout bounds a deduplicated request by every attempt plus
// the backoff between them.
func sharedRequestTimeout(perAttempt time.Duration, maxRetries int, backoff time.Duration) time.Duration {
	attempts := time.Duration(maxRetries + 1)
	waits := time.Duration(maxRetries*(maxRetries+1)/2) * backoff
	return perAttempt*attempts + waits
}

func isFeedCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return crerr.Is(err, errFeedTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
