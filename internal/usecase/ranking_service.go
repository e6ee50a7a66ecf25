package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/slfantasy/fantasy-manager/internal/domain/manager"
	"github.com/slfantasy/fantasy-manager/internal/domain/player"
	"github.com/slfantasy/fantasy-manager/internal/platform/logging"
	"github.com/slfantasy/fantasy-manager/internal/platform/metrics"
	"github.com/sourcegraph/conc/pool"
)

const defaultRankingWorkers = 8

type RankingResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	UpdatedManagers int    `json:"updated_managers"`
	FailedManagers  int    `json:"failed_managers"`
	Skipped         int    `json:"skipped"`
}

type RankingService struct {
	managerRepo manager.Repository
	playerRepo  player.Repository
	maxWorkers  int
	logger      *logging.Logger
	now         func() time.Time
}

func NewRankingService(
	managerRepo manager.Repository,
	playerRepo player.Repository,
	maxWorkers int,
	logger *logging.Logger,
) *RankingService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxWorkers <= 0 {
		maxWorkers = defaultRankingWorkers
	}

	return &RankingService{
		managerRepo: managerRepo,
		playerRepo:  playerRepo,
		maxWorkers:  maxWorkers,
		logger:      logger,
		now:         time.Now,
	}
}

type standingOutcome struct {
	standing manager.Standing
	skipped  bool
	err      error
}

// RecomputeManagerRankings totals roster points for every manager that owns at
// least one player, ranks them and writes points and rank back.
func (s *RankingService) RecomputeManagerRankings(ctx context.Context) (RankingResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.RecomputeManagerRankings")
	defer span.End()

	managers, err := s.managerRepo.List(ctx)
	if err != nil {
		return RankingResult{}, fmt.Errorf("list managers: %w", err)
	}
	if len(managers) == 0 {
		return RankingResult{Success: false, Message: "no managers found"}, nil
	}

	p := pool.NewWithResults[standingOutcome]().WithMaxGoroutines(s.maxWorkers)
	for _, item := range managers {
		item := item
		p.Go(func() standingOutcome {
			return s.gatherStanding(ctx, item)
		})
	}
	outcomes := p.Wait()

	result := RankingResult{}
	standings := make([]manager.Standing, 0, len(outcomes))
	for _, outcome := range outcomes {
		switch {
		case outcome.err != nil:
			result.FailedManagers++
			s.logger.WarnContext(ctx, "manager points aggregation failed", "manager_id", outcome.standing.ManagerID, "error", outcome.err)
		case outcome.skipped:
			result.Skipped++
		default:
			standings = append(standings, outcome.standing)
		}
	}

	if len(standings) == 0 {
		result.Message = "no managers with players to rank"
		return result, nil
	}

	for _, standing := range manager.RankStandings(standings) {
		if err := s.managerRepo.UpdateStanding(ctx, standing.ManagerID, standing.Points, standing.Rank); err != nil {
			result.FailedManagers++
			s.logger.WarnContext(ctx, "update manager standing failed", "manager_id", standing.ManagerID, "error", err)
			continue
		}
		result.UpdatedManagers++
	}

	result.Success = result.UpdatedManagers > 0
	result.Message = fmt.Sprintf("ranked %d managers", result.UpdatedManagers)
	if result.FailedManagers > 0 {
		result.Message = fmt.Sprintf("ranked %d managers, %d failed", result.UpdatedManagers, result.FailedManagers)
	}
	metrics.RankedManagers.Set(float64(result.UpdatedManagers))

	s.logger.InfoContext(ctx, "manager ranking finished",
		"updated", result.UpdatedManagers,
		"failed", result.FailedManagers,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (s *RankingService) gatherStanding(ctx context.Context, item manager.Manager) standingOutcome {
	out := standingOutcome{standing: manager.Standing{ManagerID: item.ID, CreatedAt: item.CreatedAt}}
	if len(item.Players) == 0 {
		out.skipped = true
		return out
	}

	players, err := s.playerRepo.GetByUIDs(ctx, item.Players)
	if err != nil {
		out.err = fmt.Errorf("get roster players: %w", err)
		return out
	}
	if len(players) == 0 {
		out.skipped = true
		return out
	}

	for _, p := range players {
		out.standing.Points += p.TotalPoints
	}
	return out
}
