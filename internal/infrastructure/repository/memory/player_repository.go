package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/slfantasy/fantasy-manager/internal/domain/player"
)

type PlayerRepository struct {
	mu     sync.RWMutex
	byUID  map[string]player.Player
	nextID int
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	r := &PlayerRepository{byUID: make(map[string]player.Player, len(players))}
	for _, p := range players {
		if p.ID == "" {
			r.nextID++
			p.ID = strconv.Itoa(r.nextID)
		}
		r.byUID[p.UID] = clonePlayer(p)
	}
	return r
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.byUID))
	for _, p := range r.byUID {
		out = append(out, clonePlayer(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}

func (r *PlayerRepository) GetByUID(_ context.Context, uid string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byUID[uid]
	if !ok {
		return player.Player{}, false, nil
	}
	return clonePlayer(p), true, nil
}

func (r *PlayerRepository) GetByUIDs(_ context.Context, uids []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(uids))
	for _, uid := range uids {
		p, ok := r.byUID[uid]
		if !ok {
			continue
		}
		out = append(out, clonePlayer(p))
	}
	return out, nil
}

func (r *PlayerRepository) Insert(_ context.Context, p player.Player) (player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUID[p.UID]; exists {
		return player.Player{}, fmt.Errorf("%w: %s", player.ErrDuplicateUID, p.UID)
	}
	r.nextID++
	p.ID = strconv.Itoa(r.nextID)
	r.byUID[p.UID] = clonePlayer(p)
	return clonePlayer(p), nil
}

func (r *PlayerRepository) UpdateFeedStats(_ context.Context, uid string, stats player.FeedStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byUID[uid]
	if !ok {
		return fmt.Errorf("player %s not found", uid)
	}
	r.byUID[uid] = p.ApplyFeedStats(stats)
	return nil
}

func clonePlayer(p player.Player) player.Player {
	copied := p
	copied.WeeklyScores = append([]player.WeeklyScore(nil), p.WeeklyScores...)
	return copied
}
