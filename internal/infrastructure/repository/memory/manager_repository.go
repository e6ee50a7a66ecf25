package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/slfantasy/fantasy-manager/internal/domain/manager"
)

type ManagerRepository struct {
	mu      sync.RWMutex
	byID    map[string]manager.Manager
	idByKey map[string]string
}

func NewManagerRepository() *ManagerRepository {
	return &ManagerRepository{
		byID:    make(map[string]manager.Manager),
		idByKey: make(map[string]string),
	}
}

func (r *ManagerRepository) List(_ context.Context) ([]manager.Manager, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]manager.Manager, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, cloneManager(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ManagerRepository) GetByEmail(_ context.Context, email string) (manager.Manager, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.idByKey[manager.NormalizeEmail(email)]
	if !ok {
		return manager.Manager{}, false, nil
	}
	return cloneManager(r.byID[id]), true, nil
}

func (r *ManagerRepository) Create(_ context.Context, m manager.Manager) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := manager.NormalizeEmail(m.Email)
	if _, exists := r.idByKey[key]; exists {
		return fmt.Errorf("%w: %s", manager.ErrDuplicateEmail, key)
	}
	if _, exists := r.byID[m.ID]; exists {
		return fmt.Errorf("manager id %s already exists", m.ID)
	}
	r.idByKey[key] = m.ID
	r.byID[m.ID] = cloneManager(m)
	return nil
}

func (r *ManagerRepository) Save(_ context.Context, m manager.Manager, expectedVersion int64) (manager.Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[m.ID]
	if !ok {
		return manager.Manager{}, fmt.Errorf("manager %s not found", m.ID)
	}
	if stored.Version != expectedVersion {
		return manager.Manager{}, fmt.Errorf("%w: manager=%s expected=%d actual=%d", manager.ErrVersionConflict, m.ID, expectedVersion, stored.Version)
	}

	stored.Name = m.Name
	stored.Team = m.Team
	stored.CoverPic = m.CoverPic
	stored.ProfilePic = m.ProfilePic
	stored.Players = append([]string(nil), m.Players...)
	stored.BudgetSpent = m.BudgetSpent
	stored.BudgetBalance = m.BudgetBalance
	stored.UpdatedAt = m.UpdatedAt
	stored.Version = expectedVersion + 1
	r.byID[m.ID] = stored
	return cloneManager(stored), nil
}

func (r *ManagerRepository) UpdateStanding(_ context.Context, managerID string, points int64, rank int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[managerID]
	if !ok {
		return fmt.Errorf("manager %s not found", managerID)
	}
	stored.TotalPoints = points
	stored.Rank = rank
	r.byID[managerID] = stored
	return nil
}

func cloneManager(m manager.Manager) manager.Manager {
	copied := m
	copied.Players = append([]string(nil), m.Players...)
	return copied
}
