package mongostore

import (
	"time"

	"github.com/slfantasy/fantasy-manager/internal/domain/manager"
)

type managerDocument struct {
	ID            string    `bson:"_id"`
	Email         string    `bson:"email"`
	Name          string    `bson:"name"`
	Team          string    `bson:"team"`
	CoverPic      string    `bson:"cover_pic,omitempty"`
	ProfilePic    string    `bson:"profile_pic,omitempty"`
	BudgetSpent   float64   `bson:"budget_spent"`
	BudgetBalance float64   `bson:"budget_balance"`
	WinPercentage float64   `bson:"win_percentage"`
	MatchWin      int       `bson:"match_win"`
	Points        int64     `bson:"points"`
	ManagerRank   int       `bson:"manager_rank"`
	Players       []string  `bson:"players"`
	Version       int64     `bson:"version"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func managerFromDomain(m manager.Manager) managerDocument {
	players := m.Players
	if players == nil {
		players = []string{}
	}
	return managerDocument{
		ID:            m.ID,
		Email:         manager.NormalizeEmail(m.Email),
		Name:          m.Name,
		Team:          m.Team,
		CoverPic:      m.CoverPic,
		ProfilePic:    m.ProfilePic,
		BudgetSpent:   m.BudgetSpent,
		BudgetBalance: m.BudgetBalance,
		WinPercentage: m.WinPercentage,
		MatchWin:      m.MatchWin,
		Points:        m.TotalPoints,
		ManagerRank:   m.Rank,
		Players:       players,
		Version:       m.Version,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (d managerDocument) toDomain() manager.Manager {
	players := d.Players
	if players == nil {
		players = []string{}
	}
	return manager.Manager{
		ID:            d.ID,
		Email:         d.Email,
		Name:          d.Name,
		Team:          d.Team,
		CoverPic:      d.CoverPic,
		ProfilePic:    d.ProfilePic,
		BudgetSpent:   d.BudgetSpent,
		BudgetBalance: d.BudgetBalance,
		WinPercentage: d.WinPercentage,
		MatchWin:      d.MatchWin,
		TotalPoints:   d.Points,
		Rank:          d.ManagerRank,
		Players:       players,
		Version:       d.Version,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
