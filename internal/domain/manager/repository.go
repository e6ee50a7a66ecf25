package manager

import (
	"context"
	"errors"
)

var (
	ErrVersionConflict = errors.New("manager version conflict")
	ErrDuplicateEmail  = errors.New("manager email already registered")
)

// Repository describes manager persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Manager, error)
	GetByEmail(ctx context.Context, email string) (Manager, bool, error)
	Create(ctx context.Context, m Manager) error
	// Save writes roster, budget and profile fields only when the stored
	// version equals expectedVersion, and returns the manager with its new version.
	Save(ctx context.Context, m Manager, expectedVersion int64) (Manager, error)
	UpdateStanding(ctx context.Context, managerID string, points int64, rank int) error
}
