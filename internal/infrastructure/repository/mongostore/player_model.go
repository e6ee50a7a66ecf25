package mongostore

import (
	"time"

	"github.com/slfantasy/fantasy-manager/internal/domain/player"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type playerDocument struct {
	ID           primitive.ObjectID    `bson:"_id,omitempty"`
	PlayerUID    string                `bson:"player_uid"`
	PlayerName   string                `bson:"player_name"`
	FullName     string                `bson:"full_name"`
	PlayerTeamID string                `bson:"player_team_id"`
	TeamName     string                `bson:"team_name"`
	Jersey       string                `bson:"jersey"`
	Position     string                `bson:"position"`
	Salary       float64               `bson:"salary"`
	TotalPoints  int64                 `bson:"total_points"`
	PlayerStatus int                   `bson:"player_status"`
	WeeklyScores []weeklyScoreDocument `bson:"weekly_scores"`
	UpdatedAt    time.Time             `bson:"updated_at"`
}

type weeklyScoreDocument struct {
	Week          int    `bson:"week"`
	Score         int64  `bson:"score"`
	SeasonGameUID string `bson:"season_game_uid"`
}

func playerFromDomain(p player.Player) playerDocument {
	doc := playerDocument{
		PlayerUID:    p.UID,
		PlayerName:   p.FullName,
		FullName:     p.FullName,
		PlayerTeamID: p.TeamID,
		TeamName:     p.TeamName,
		Jersey:       p.Jersey,
		Position:     p.Position,
		Salary:       p.Salary,
		TotalPoints:  p.TotalPoints,
		PlayerStatus: p.Status,
		WeeklyScores: weeklyScoresFromDomain(p.WeeklyScores),
		UpdatedAt:    p.UpdatedAt,
	}
	if id, err := primitive.ObjectIDFromHex(p.ID); err == nil {
		doc.ID = id
	}
	return doc
}

func (d playerDocument) toDomain() player.Player {
	name := d.FullName
	if name == "" {
		name = d.PlayerName
	}
	scores := make([]player.WeeklyScore, 0, len(d.WeeklyScores))
	for _, item := range d.WeeklyScores {
		scores = append(scores, player.WeeklyScore{Week: item.Week, Score: item.Score, SeasonGameUID: item.SeasonGameUID})
	}

	return player.Player{
		ID:           d.ID.Hex(),
		UID:          d.PlayerUID,
		TeamID:       d.PlayerTeamID,
		FullName:     name,
		TeamName:     d.TeamName,
		Position:     d.Position,
		Jersey:       d.Jersey,
		Salary:       d.Salary,
		TotalPoints:  d.TotalPoints,
		Status:       d.PlayerStatus,
		WeeklyScores: scores,
		UpdatedAt:    d.UpdatedAt,
	}
}

func weeklyScoresFromDomain(items []player.WeeklyScore) []weeklyScoreDocument {
	out := make([]weeklyScoreDocument, 0, len(items))
	for _, item := range items {
		out = append(out, weeklyScoreDocument{Week: item.Week, Score: item.Score, SeasonGameUID: item.SeasonGameUID})
	}
	return out
}
