package manager

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	DefaultName      = "New Manager"
	DefaultTeam      = "My Fantasy Team"
	DefaultBudget    = 100.0
	UnrankedSentinel = 1000
)

// Manager is a user-owned fantasy team with a salary-capped roster of player UIDs.
type Manager struct {
	ID            string
	Email         string
	Name          string
	Team          string
	CoverPic      string
	ProfilePic    string
	BudgetSpent   float64
	BudgetBalance float64
	WinPercentage float64
	MatchWin      int
	TotalPoints   int64
	Rank          int
	Players       []string
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func New(id, email string, initialBudget float64, now time.Time) Manager {
	return Manager{
		ID:            id,
		Email:         NormalizeEmail(email),
		Name:          DefaultName,
		Team:          DefaultTeam,
		BudgetBalance: roundCents(initialBudget),
		Rank:          UnrankedSentinel,
		Players:       []string{},
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func NormalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func (m Manager) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("manager id is required")
	}
	if m.Email == "" {
		return fmt.Errorf("manager email is required")
	}
	if m.BudgetBalance < 0 {
		return fmt.Errorf("manager budget balance must not be negative")
	}
	seen := make(map[string]struct{}, len(m.Players))
	for _, uid := range m.Players {
		if _, ok := seen[uid]; ok {
			return fmt.Errorf("%w: %s", ErrPlayerAlreadyInRoster, uid)
		}
		seen[uid] = struct{}{}
	}
	return nil
}

func (m Manager) HasPlayer(uid string) bool {
	for _, existing := range m.Players {
		if existing == uid {
			return true
		}
	}
	return false
}

// TotalBudget is the amount the manager started with; spending only moves
// value between the two budget fields.
func (m Manager) TotalBudget() float64 {
	return roundCents(m.BudgetSpent + m.BudgetBalance)
}

func (m Manager) clone() Manager {
	m.Players = append([]string(nil), m.Players...)
	return m
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
