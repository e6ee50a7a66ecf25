package manager

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/slfantasy/fantasy-manager/internal/domain/player"
)

var (
	ErrInvalidPlayerReference = errors.New("invalid player id")
	ErrPlayerAlreadyInRoster  = errors.New("player already in your team")
	ErrInsufficientBudget     = errors.New("not enough budget to buy this player")
	ErrPlayerNotInRoster      = errors.New("player not found in your team")
)

// ProfileUpdate carries the user-editable fields. A nil field is left alone
// and an empty string clears the stored value.
type ProfileUpdate struct {
	Name       *string
	Team       *string
	CoverPic   *string
	ProfilePic *string
}

func (u ProfileUpdate) IsZero() bool {
	return u.Name == nil && u.Team == nil && u.CoverPic == nil && u.ProfilePic == nil
}

// AddPlayer buys p into the roster. The receiver is never modified.
func (m Manager) AddPlayer(p player.Player) (Manager, error) {
	if p.UID == "" {
		return m, ErrInvalidPlayerReference
	}
	if m.HasPlayer(p.UID) {
		return m, fmt.Errorf("%w: %s", ErrPlayerAlreadyInRoster, p.UID)
	}
	price := roundCents(p.Salary)
	if m.BudgetBalance < price {
		return m, fmt.Errorf("%w: balance=%.2f salary=%.2f", ErrInsufficientBudget, m.BudgetBalance, price)
	}

	out := m.clone()
	out.Players = append(out.Players, p.UID)
	out.BudgetBalance = roundCents(out.BudgetBalance - price)
	out.BudgetSpent = roundCents(out.BudgetSpent + price)
	return out, nil
}

// RemovePlayer sells p back at its current salary.
func (m Manager) RemovePlayer(p player.Player) (Manager, error) {
	if !m.HasPlayer(p.UID) {
		return m, fmt.Errorf("%w: %s", ErrPlayerNotInRoster, p.UID)
	}

	price := roundCents(p.Salary)
	out := m.clone()
	kept := out.Players[:0]
	for _, uid := range out.Players {
		if uid != p.UID {
			kept = append(kept, uid)
		}
	}
	out.Players = kept
	out.BudgetBalance = roundCents(out.BudgetBalance + price)
	out.BudgetSpent = roundCents(out.BudgetSpent - price)
	return out, nil
}

func (m Manager) ApplyProfile(u ProfileUpdate) Manager {
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.Team != nil {
		m.Team = *u.Team
	}
	if u.CoverPic != nil {
		m.CoverPic = *u.CoverPic
	}
	if u.ProfilePic != nil {
		m.ProfilePic = *u.ProfilePic
	}
	return m
}

// Standing is one manager's aggregated score awaiting a rank.
type Standing struct {
	ManagerID string
	CreatedAt time.Time
	Points    int64
	Rank      int
}

// RankStandings orders by points descending, then earliest CreatedAt, then
// ManagerID, and assigns positional ranks starting at 1.
func RankStandings(items []Standing) []Standing {
	out := append([]Standing(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ManagerID < out[j].ManagerID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
