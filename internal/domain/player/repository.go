package player

import (
	"context"
	"errors"
)

var ErrDuplicateUID = errors.New("player uid already exists")

// Repository describes player persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Player, error)
	GetByUID(ctx context.Context, uid string) (Player, bool, error)
	// GetByUIDs returns the players that exist, in no particular order.
	GetByUIDs(ctx context.Context, uids []string) ([]Player, error)
	Insert(ctx context.Context, p Player) (Player, error)
	UpdateFeedStats(ctx context.Context, uid string, stats FeedStats) error
}
