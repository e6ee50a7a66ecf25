package player

import (
	"fmt"
	"sort"
	"time"
)

const DefaultPosition = "NA"

// WeeklyScore is one fixture's fantasy score for a player.
type WeeklyScore struct {
	Week          int
	Score         int64
	SeasonGameUID string
}

// Player is a real-world athlete available for selection, keyed by the feed UID.
type Player struct {
	ID           string
	UID          string
	TeamID       string
	FullName     string
	TeamName     string
	Position     string
	Jersey       string
	Salary       float64
	TotalPoints  int64
	Status       int
	WeeklyScores []WeeklyScore
	UpdatedAt    time.Time
}

// FeedStats is the subset of a player refreshed by every feed sync.
type FeedStats struct {
	TotalPoints  int64
	Status       int
	WeeklyScores []WeeklyScore
	UpdatedAt    time.Time
}

func (p Player) Validate() error {
	if p.UID == "" {
		return fmt.Errorf("player uid is required")
	}
	if p.TeamID == "" {
		return fmt.Errorf("player team id is required")
	}
	if p.FullName == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Salary <= 0 {
		return fmt.Errorf("player salary must be greater than zero")
	}

	return nil
}

// ApplyFeedStats overwrites the volatile fields with a fresh feed snapshot.
func (p Player) ApplyFeedStats(stats FeedStats) Player {
	p.TotalPoints = stats.TotalPoints
	p.Status = stats.Status
	p.WeeklyScores = NormalizeWeeklyScores(stats.WeeklyScores)
	p.UpdatedAt = stats.UpdatedAt
	return p
}

// NormalizeWeeklyScores drops repeated (week, season game) entries, keeping the
// last one seen, and orders the result by week then season game.
func NormalizeWeeklyScores(in []WeeklyScore) []WeeklyScore {
	if len(in) == 0 {
		return []WeeklyScore{}
	}

	type key struct {
		week int
		game string
	}
	index := make(map[key]int, len(in))
	out := make([]WeeklyScore, 0, len(in))
	for _, item := range in {
		k := key{week: item.Week, game: item.SeasonGameUID}
		if pos, ok := index[k]; ok {
			out[pos] = item
			continue
		}
		index[k] = len(out)
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].SeasonGameUID < out[j].SeasonGameUID
	})
	return out
}
