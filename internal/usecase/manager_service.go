package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/slfantasy/fantasy-manager/internal/domain/manager"
	"github.com/slfantasy/fantasy-manager/internal/domain/player"
	idgen "github.com/slfantasy/fantasy-manager/internal/platform/id"
	"github.com/slfantasy/fantasy-manager/internal/platform/logging"
	"github.com/slfantasy/fantasy-manager/internal/platform/metrics"
	"github.com/slfantasy/fantasy-manager/internal/platform/resilience"
)

const maxRosterWriteAttempts = 3

// Profile is a manager together with the resolved players of its roster.
type Profile struct {
	Manager manager.Manager
	Players []player.Player
}

// MutationInput is a partial roster/profile update. Nil profile fields are
// left untouched; an empty string clears the field.
type MutationInput struct {
	AddPlayer    string
	RemovePlayer string
	Name         *string
	Team         *string
	CoverPic     *string
	ProfilePic   *string
}

func (in MutationInput) profileUpdate() manager.ProfileUpdate {
	return manager.ProfileUpdate{
		Name:       in.Name,
		Team:       in.Team,
		CoverPic:   in.CoverPic,
		ProfilePic: in.ProfilePic,
	}
}

type ManagerService struct {
	managerRepo   manager.Repository
	playerRepo    player.Repository
	idGen         idgen.Generator
	initialBudget float64
	logger        *logging.Logger
	now           func() time.Time
	flight        resilience.SingleFlight[manager.Manager]
}

func NewManagerService(
	managerRepo manager.Repository,
	playerRepo player.Repository,
	idGen idgen.Generator,
	initialBudget float64,
	logger *logging.Logger,
) *ManagerService {
	if logger == nil {
		logger = logging.Default()
	}
	if initialBudget <= 0 {
		initialBudget = manager.DefaultBudget
	}

	return &ManagerService{
		managerRepo:   managerRepo,
		playerRepo:    playerRepo,
		idGen:         idGen,
		initialBudget: initialBudget,
		logger:        logger,
		now:           time.Now,
	}
}

// GetOrCreateProfile returns the caller's manager, creating it on first access.
func (s *ManagerService) GetOrCreateProfile(ctx context.Context, email string) (Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ManagerService.GetOrCreateProfile")
	defer span.End()

	email = manager.NormalizeEmail(email)
	if email == "" {
		return Profile{}, fmt.Errorf("%w: email is required", ErrUnauthorized)
	}

	item, err, _ := s.flight.Do(email, func() (manager.Manager, error) {
		return s.getOrCreate(ctx, email)
	})
	if err != nil {
		return Profile{}, err
	}

	return s.buildProfile(ctx, item)
}

func (s *ManagerService) getOrCreate(ctx context.Context, email string) (manager.Manager, error) {
	existing, exists, err := s.managerRepo.GetByEmail(ctx, email)
	if err != nil {
		return manager.Manager{}, fmt.Errorf("get manager by email: %w", err)
	}
	if exists {
		return existing, nil
	}

	managerID, err := s.idGen.NewID()
	if err != nil {
		return manager.Manager{}, fmt.Errorf("generate manager id: %w", err)
	}

	item := manager.New(managerID, email, s.initialBudget, s.now().UTC())
	if err := s.managerRepo.Create(ctx, item); err != nil {
		if !errors.Is(err, manager.ErrDuplicateEmail) {
			return manager.Manager{}, fmt.Errorf("create manager: %w", err)
		}
		existing, exists, err = s.managerRepo.GetByEmail(ctx, email)
		if err != nil {
			return manager.Manager{}, fmt.Errorf("get manager by email: %w", err)
		}
		if !exists {
			return manager.Manager{}, fmt.Errorf("%w: manager disappeared after duplicate create", ErrConflict)
		}
		return existing, nil
	}

	s.logger.InfoContext(ctx, "manager created", "manager_id", item.ID)
	return item, nil
}

// MutateRoster applies an add and/or remove plus profile edits as one
// versioned write, retrying on concurrent modification.
func (s *ManagerService) MutateRoster(ctx context.Context, email string, input MutationInput) (Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ManagerService.MutateRoster")
	defer span.End()

	email = manager.NormalizeEmail(email)
	if email == "" {
		return Profile{}, fmt.Errorf("%w: email is required", ErrUnauthorized)
	}
	input.AddPlayer = strings.TrimSpace(input.AddPlayer)
	input.RemovePlayer = strings.TrimSpace(input.RemovePlayer)

	for attempt := 1; attempt <= maxRosterWriteAttempts; attempt++ {
		current, exists, err := s.managerRepo.GetByEmail(ctx, email)
		if err != nil {
			return Profile{}, fmt.Errorf("get manager by email: %w", err)
		}
		if !exists {
			return Profile{}, fmt.Errorf("%w: manager profile not found", ErrNotFound)
		}

		next, err := s.applyMutation(ctx, current, input)
		if err != nil {
			metrics.RosterMutationsTotal.WithLabelValues("rejected").Inc()
			return Profile{}, err
		}
		if input.AddPlayer == "" && input.RemovePlayer == "" && input.profileUpdate().IsZero() {
			return s.buildProfile(ctx, current)
		}
		next.UpdatedAt = s.now().UTC()

		saved, err := s.managerRepo.Save(ctx, next, current.Version)
		if err != nil {
			if errors.Is(err, manager.ErrVersionConflict) {
				metrics.RosterConflictRetries.Inc()
				s.logger.WarnContext(ctx, "manager write conflict, retrying", "manager_id", current.ID, "attempt", attempt)
				continue
			}
			return Profile{}, fmt.Errorf("save manager: %w", err)
		}

		metrics.RosterMutationsTotal.WithLabelValues("applied").Inc()
		s.logger.InfoContext(ctx, "manager updated",
			"manager_id", saved.ID,
			"add_player", input.AddPlayer,
			"remove_player", input.RemovePlayer,
			"budget_balance", saved.BudgetBalance,
		)
		return s.buildProfile(ctx, saved)
	}

	metrics.RosterMutationsTotal.WithLabelValues("conflict").Inc()
	return Profile{}, fmt.Errorf("%w: manager changed concurrently, retry the request", ErrConflict)
}

func (s *ManagerService) applyMutation(ctx context.Context, current manager.Manager, input MutationInput) (manager.Manager, error) {
	next := current

	if input.AddPlayer != "" {
		item, err := s.resolvePlayer(ctx, input.AddPlayer)
		if err != nil {
			return manager.Manager{}, err
		}
		if next, err = next.AddPlayer(item); err != nil {
			return manager.Manager{}, err
		}
	}

	if input.RemovePlayer != "" {
		if !next.HasPlayer(input.RemovePlayer) {
			return manager.Manager{}, fmt.Errorf("%w: %s", manager.ErrPlayerNotInRoster, input.RemovePlayer)
		}
		item, err := s.resolvePlayer(ctx, input.RemovePlayer)
		if err != nil {
			return manager.Manager{}, err
		}
		if next, err = next.RemovePlayer(item); err != nil {
			return manager.Manager{}, err
		}
	}

	return next.ApplyProfile(input.profileUpdate()), nil
}

// ListPlayers returns the shared player pool managers pick from, ordered by UID.
func (s *ManagerService) ListPlayers(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ManagerService.ListPlayers")
	defer span.End()

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].UID < players[j].UID })
	return players, nil
}

func (s *ManagerService) resolvePlayer(ctx context.Context, uid string) (player.Player, error) {
	item, exists, err := s.playerRepo.GetByUID(ctx, uid)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by uid: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: %s", manager.ErrInvalidPlayerReference, uid)
	}
	return item, nil
}

func (s *ManagerService) buildProfile(ctx context.Context, item manager.Manager) (Profile, error) {
	profile := Profile{Manager: item, Players: []player.Player{}}
	if len(item.Players) == 0 {
		return profile, nil
	}

	players, err := s.playerRepo.GetByUIDs(ctx, item.Players)
	if err != nil {
		return Profile{}, fmt.Errorf("get roster players: %w", err)
	}

	byUID := make(map[string]player.Player, len(players))
	for _, p := range players {
		byUID[p.UID] = p
	}
	for _, uid := range item.Players {
		if p, ok := byUID[uid]; ok {
			profile.Players = append(profile.Players, p)
		}
	}
	return profile, nil
}
