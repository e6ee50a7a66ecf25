package usecase

import (
	"context"

	"github.com/slfantasy/fantasy-manager/internal/domain/player"
)

// FeedQuery identifies one player card on the external statistics feed.
type FeedQuery struct {
	LeagueID  string
	SportsID  string
	TeamID    string
	PlayerUID string
}

// FeedPlayer is a fully defaulted player card decoded from the feed.
type FeedPlayer struct {
	PlayerUID    string
	FullName     string
	TeamName     string
	TeamID       string
	Position     string
	Jersey       string
	Salary       float64
	TotalPoints  int64
	Status       int
	WeeklyScores []player.WeeklyScore
}

// PlayerFeed fetches per-player statistics from the external provider.
type PlayerFeed interface {
	FetchPlayer(ctx context.Context, query FeedQuery) (FeedPlayer, error)
}
