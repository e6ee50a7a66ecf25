package httpapi

import (
	"strings"
	"time"

	"github.com/slfantasy/fantasy-manager/internal/domain/jobrun"
	"github.com/slfantasy/fantasy-manager/internal/domain/player"
	"github.com/slfantasy/fantasy-manager/internal/usecase"
)

// mutateRosterRequest accepts addPlayer/removePlayer as aliases of the
// snake_case keys; the snake_case value wins when both are sent.
type mutateRosterRequest struct {
	AddPlayer         string  `json:"add_player" validate:"omitempty,max=128"`
	RemovePlayer      string  `json:"remove_player" validate:"omitempty,max=128"`
	AddPlayerAlias    string  `json:"addPlayer" validate:"omitempty,max=128"`
	RemovePlayerAlias string  `json:"removePlayer" validate:"omitempty,max=128"`
	Name              *string `json:"name" validate:"omitempty,max=100"`
	Team              *string `json:"team" validate:"omitempty,max=100"`
	CoverPic          *string `json:"cover_pic" validate:"omitempty,max=2048"`
	ProfilePic        *string `json:"profile_pic" validate:"omitempty,max=2048"`
}

type createPlayerRequest struct {
	LeagueID  string `json:"league_id" validate:"required,max=32"`
	SportsID  string `json:"sports_id" validate:"required,max=32"`
	TeamID    string `json:"team_id" validate:"required,max=64"`
	PlayerUID string `json:"player_uid" validate:"required,max=128"`
}

type managerProfileDTO struct {
	ID            string            `json:"id"`
	Email         string            `json:"email"`
	Name          string            `json:"name"`
	Team          string            `json:"team"`
	CoverPic      string            `json:"cover_pic,omitempty"`
	ProfilePic    string            `json:"profile_pic,omitempty"`
	BudgetSpent   float64           `json:"budget_spent"`
	BudgetBalance float64           `json:"budget_balance"`
	WinPercentage float64           `json:"win_percentage"`
	MatchWin      int               `json:"match_win"`
	TotalPoints   int64             `json:"total_points"`
	Rank          int               `json:"rank"`
	Players       []rosterPlayerDTO `json:"players"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type rosterPlayerDTO struct {
	PlayerUID   string  `json:"player_uid"`
	FullName    string  `json:"full_name"`
	TeamID      string  `json:"player_team_id"`
	TeamName    string  `json:"team_name"`
	Position    string  `json:"position"`
	Salary      float64 `json:"salary"`
	TotalPoints int64   `json:"total_points"`
}

type playerDTO struct {
	ID           string           `json:"id"`
	PlayerUID    string           `json:"player_uid"`
	FullName     string           `json:"full_name"`
	TeamID       string           `json:"player_team_id"`
	TeamName     string           `json:"team_name"`
	Position     string           `json:"position"`
	Jersey       string           `json:"jersey,omitempty"`
	Salary       float64          `json:"salary"`
	TotalPoints  int64            `json:"total_points"`
	Status       int              `json:"player_status"`
	WeeklyScores []weeklyScoreDTO `json:"master_data"`
}

type weeklyScoreDTO struct {
	Week          int    `json:"week"`
	Score         int64  `json:"score"`
	SeasonGameUID string `json:"season_game_uid"`
}

type jobRunDTO struct {
	ID         string     `json:"id"`
	JobName    string     `json:"job_name"`
	Trigger    string     `json:"trigger"`
	Status     string     `json:"status"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	Message    string     `json:"message,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type syncJobResponse struct {
	Run    jobRunDTO           `json:"run"`
	Result *usecase.SyncResult `json:"result,omitempty"`
}

type rankJobResponse struct {
	Run    jobRunDTO              `json:"run"`
	Result *usecase.RankingResult `json:"result,omitempty"`
}

func (r mutateRosterRequest) addPlayer() string {
	return firstNonEmpty(r.AddPlayer, r.AddPlayerAlias)
}

func (r mutateRosterRequest) removePlayer() string {
	return firstNonEmpty(r.RemovePlayer, r.RemovePlayerAlias)
}

func (r mutateRosterRequest) toInput() usecase.MutationInput {
	return usecase.MutationInput{
		AddPlayer:    r.addPlayer(),
		RemovePlayer: r.removePlayer(),
		Name:         r.Name,
		Team:         r.Team,
		CoverPic:     r.CoverPic,
		ProfilePic:   r.ProfilePic,
	}
}

func profileToDTO(p usecase.Profile) managerProfileDTO {
	m := p.Manager
	players := make([]rosterPlayerDTO, 0, len(p.Players))
	for _, item := range p.Players {
		players = append(players, rosterPlayerToDTO(item))
	}

	return managerProfileDTO{
		ID:            m.ID,
		Email:         m.Email,
		Name:          m.Name,
		Team:          m.Team,
		CoverPic:      m.CoverPic,
		ProfilePic:    m.ProfilePic,
		BudgetSpent:   m.BudgetSpent,
		BudgetBalance: m.BudgetBalance,
		WinPercentage: m.WinPercentage,
		MatchWin:      m.MatchWin,
		TotalPoints:   m.TotalPoints,
		Rank:          m.Rank,
		Players:       players,
		UpdatedAt:     m.UpdatedAt,
	}
}

func rosterPlayerToDTO(p player.Player) rosterPlayerDTO {
	return rosterPlayerDTO{
		PlayerUID:   p.UID,
		FullName:    p.FullName,
		TeamID:      p.TeamID,
		TeamName:    p.TeamName,
		Position:    p.Position,
		Salary:      p.Salary,
		TotalPoints: p.TotalPoints,
	}
}

func playerToDTO(p player.Player) playerDTO {
	scores := make([]weeklyScoreDTO, 0, len(p.WeeklyScores))
	for _, s := range p.WeeklyScores {
		scores = append(scores, weeklyScoreDTO{Week: s.Week, Score: s.Score, SeasonGameUID: s.SeasonGameUID})
	}

	return playerDTO{
		ID:           p.ID,
		PlayerUID:    p.UID,
		FullName:     p.FullName,
		TeamID:       p.TeamID,
		TeamName:     p.TeamName,
		Position:     p.Position,
		Jersey:       p.Jersey,
		Salary:       p.Salary,
		TotalPoints:  p.TotalPoints,
		Status:       p.Status,
		WeeklyScores: scores,
	}
}

func jobRunToDTO(r jobrun.Run) jobRunDTO {
	return jobRunDTO{
		ID:         r.ID,
		JobName:    string(r.JobName),
		Trigger:    string(r.Trigger),
		Status:     string(r.Status),
		Succeeded:  r.Succeeded,
		Failed:     r.Failed,
		Message:    r.Message,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
