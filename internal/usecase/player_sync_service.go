package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/slfantasy/fantasy-manager/internal/domain/player"
	"github.com/slfantasy/fantasy-manager/internal/platform/logging"
	"github.com/slfantasy/fantasy-manager/internal/platform/metrics"
)

const (
	SyncStatusSuccess = "success"
	SyncStatusFailed  = "failed"

	defaultSyncWorkers      = 8
	defaultFeedFetchTimeout = 10 * time.Second
)

type PlayerSyncConfig struct {
	LeagueID     string
	SportsID     string
	MaxWorkers   int
	FetchTimeout time.Duration
}

type SyncResult struct {
	Total       int              `json:"total"`
	Succeeded   int              `json:"succeeded"`
	Failed      int              `json:"failed"`
	WorkerCount int              `json:"worker_count"`
	Items       []SyncItemResult `json:"items"`
}

type SyncItemResult struct {
	PlayerUID   string `json:"player_uid"`
	Status      string `json:"status"`
	TotalPoints int64  `json:"total_points"`
	DurationMs  int64  `json:"duration_ms"`
	Message     string `json:"message,omitempty"`
}

type CreatePlayerInput struct {
	LeagueID  string
	SportsID  string
	TeamID    string
	PlayerUID string
}

type PlayerSyncService struct {
	playerRepo player.Repository
	feed       PlayerFeed
	cfg        PlayerSyncConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewPlayerSyncService(
	playerRepo player.Repository,
	feed PlayerFeed,
	cfg PlayerSyncConfig,
	logger *logging.Logger,
) *PlayerSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFeedFetchTimeout
	}

	return &PlayerSyncService{
		playerRepo: playerRepo,
		feed:       feed,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// SyncAllPlayers refreshes points, status and weekly scores of every stored
// player from the feed. A failing player never aborts the batch.
func (s *PlayerSyncService) SyncAllPlayers(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerSyncService.SyncAllPlayers")
	defer span.End()

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list players: %w", err)
	}
	if len(players) == 0 {
		return SyncResult{}, fmt.Errorf("%w: no players to sync", ErrNotFound)
	}

	workerCount := normalizeSyncWorkerCount(s.cfg.MaxWorkers, len(players))
	result := SyncResult{
		Total:       len(players),
		WorkerCount: workerCount,
		Items:       make([]SyncItemResult, 0, len(players)),
	}

	results := make(chan SyncItemResult, len(players))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return SyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, item := range players {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := s.syncOne(ctx, item)
			if row.Status == SyncStatusSuccess {
				successCount.Add(1)
			} else {
				failedCount.Add(1)
			}
			metrics.SyncedPlayersTotal.WithLabelValues(row.Status).Inc()
			results <- row
		}); err != nil {
			workers.Done()
			return SyncResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Items = append(result.Items, row)
	}
	sort.SliceStable(result.Items, func(i, j int) bool {
		return result.Items[i].PlayerUID < result.Items[j].PlayerUID
	})

	result.Succeeded = int(successCount.Load())
	result.Failed = int(failedCount.Load())

	s.logger.InfoContext(ctx, "player sync finished",
		"total", result.Total,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"workers", result.WorkerCount,
	)
	return result, nil
}

func (s *PlayerSyncService) syncOne(ctx context.Context, item player.Player) SyncItemResult {
	start := time.Now()
	row := SyncItemResult{PlayerUID: item.UID}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	card, err := s.feed.FetchPlayer(fetchCtx, FeedQuery{
		LeagueID:  s.cfg.LeagueID,
		SportsID:  s.cfg.SportsID,
		TeamID:    item.TeamID,
		PlayerUID: item.UID,
	})
	if err == nil {
		row.TotalPoints = card.TotalPoints
		err = s.playerRepo.UpdateFeedStats(ctx, item.UID, player.FeedStats{
			TotalPoints:  card.TotalPoints,
			Status:       card.Status,
			WeeklyScores: player.NormalizeWeeklyScores(card.WeeklyScores),
			UpdatedAt:    s.now().UTC(),
		})
		if err != nil {
			err = fmt.Errorf("update feed stats: %w", err)
		}
	}

	row.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		row.Status = SyncStatusFailed
		row.TotalPoints = 0
		row.Message = err.Error()
		s.logger.WarnContext(ctx, "player sync failed", "player_uid", item.UID, "error", err)
		return row
	}

	row.Status = SyncStatusSuccess
	return row
}

// CreatePlayerFromFeed registers a new player using the feed's player card.
func (s *PlayerSyncService) CreatePlayerFromFeed(ctx context.Context, input CreatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerSyncService.CreatePlayerFromFeed")
	defer span.End()

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.SportsID = strings.TrimSpace(input.SportsID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.PlayerUID = strings.TrimSpace(input.PlayerUID)
	switch {
	case input.LeagueID == "":
		return player.Player{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	case input.SportsID == "":
		return player.Player{}, fmt.Errorf("%w: sports id is required", ErrInvalidInput)
	case input.TeamID == "":
		return player.Player{}, fmt.Errorf("%w: player team id is required", ErrInvalidInput)
	case input.PlayerUID == "":
		return player.Player{}, fmt.Errorf("%w: player uid is required", ErrInvalidInput)
	}

	if _, exists, err := s.playerRepo.GetByUID(ctx, input.PlayerUID); err != nil {
		return player.Player{}, fmt.Errorf("get player by uid: %w", err)
	} else if exists {
		return player.Player{}, fmt.Errorf("%w: player %s", ErrAlreadyExists, input.PlayerUID)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()
	card, err := s.feed.FetchPlayer(fetchCtx, FeedQuery{
		LeagueID:  input.LeagueID,
		SportsID:  input.SportsID,
		TeamID:    input.TeamID,
		PlayerUID: input.PlayerUID,
	})
	if err != nil {
		return player.Player{}, fmt.Errorf("fetch player card: %w", err)
	}

	position := strings.TrimSpace(card.Position)
	if position == "" {
		position = player.DefaultPosition
	}
	item := player.Player{
		UID:          input.PlayerUID,
		TeamID:       input.TeamID,
		FullName:     strings.TrimSpace(card.FullName),
		TeamName:     strings.TrimSpace(card.TeamName),
		Position:     position,
		Jersey:       card.Jersey,
		Salary:       card.Salary,
		TotalPoints:  card.TotalPoints,
		Status:       card.Status,
		WeeklyScores: player.NormalizeWeeklyScores(card.WeeklyScores),
		UpdatedAt:    s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.playerRepo.Insert(ctx, item)
	if err != nil {
		if errors.Is(err, player.ErrDuplicateUID) {
			return player.Player{}, fmt.Errorf("%w: player %s", ErrAlreadyExists, input.PlayerUID)
		}
		return player.Player{}, fmt.Errorf("insert player: %w", err)
	}

	s.logger.InfoContext(ctx, "player created from feed", "player_uid", created.UID, "team_id", created.TeamID)
	return created, nil
}

func normalizeSyncWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = defaultSyncWorkers
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
