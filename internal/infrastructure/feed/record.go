package feed

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/slfantasy/fantasy-manager/internal/domain/player"
	"github.com/slfantasy/fantasy-manager/internal/usecase"
)

var (
	leadingIntRegex   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloatRegex = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)`)
	digitsRegex       = regexp.MustCompile(`\d+`)
	recordValidator   = validator.New()
)

// flexString accepts a JSON string, number or null.
type flexString string

func (s *flexString) UnmarshalJSON(raw []byte) error {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		var v string
		if err := sonic.Unmarshal(raw, &v); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(v))
		return nil
	}
	if text == "true" || text == "false" || strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		*s = ""
		return nil
	}
	*s = flexString(text)
	return nil
}

// flexNumber accepts a JSON number or numeric string. Anything else decodes
// to zero instead of failing the whole card.
type flexNumber struct {
	raw string
}

func (n *flexNumber) UnmarshalJSON(raw []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(raw); err != nil {
		return err
	}
	n.raw = string(s)
	return nil
}

// Int mirrors integer prefix parsing: "12.9" and "12pts" both yield 12.
func (n flexNumber) Int() int64 {
	match := leadingIntRegex.FindString(strings.TrimSpace(n.raw))
	if match == "" {
		return 0
	}
	v, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func (n flexNumber) Float() float64 {
	match := leadingFloatRegex.FindString(strings.TrimSpace(n.raw))
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

type playerCardEnvelope struct {
	Data *playerCardRecord `json:"data"`
}

type playerCardRecord struct {
	PlayerUID    flexString         `json:"player_uid" validate:"required"`
	FullName     flexString         `json:"full_name"`
	TeamName     flexString         `json:"team_name"`
	PlayerTeam   flexString         `json:"player_team"`
	PlayerTeamID flexString         `json:"player_team_id"`
	Jersey       flexString         `json:"jersey"`
	Position     flexString         `json:"position"`
	Salary       flexNumber         `json:"salary"`
	TotalPoints  flexNumber         `json:"total_points"`
	PlayerStatus flexNumber         `json:"player_status"`
	MasterData   []weeklyScoreEntry `json:"master_data"`
}

type weeklyScoreEntry struct {
	Week          flexNumber `json:"week"`
	Score         flexNumber `json:"score"`
	SeasonGameUID flexString `json:"season_game_uid"`
}

func (r playerCardRecord) validate() error {
	return recordValidator.Struct(r)
}

func (r playerCardRecord) toFeedPlayer() usecase.FeedPlayer {
	teamName := string(r.TeamName)
	if teamName == "" {
		teamName = string(r.PlayerTeam)
	}

	scores := make([]player.WeeklyScore, 0, len(r.MasterData))
	for _, entry := range r.MasterData {
		scores = append(scores, player.WeeklyScore{
			Week:          int(entry.Week.Int()),
			Score:         entry.Score.Int(),
			SeasonGameUID: string(entry.SeasonGameUID),
		})
	}

	return usecase.FeedPlayer{
		PlayerUID:    string(r.PlayerUID),
		FullName:     string(r.FullName),
		TeamName:     teamName,
		TeamID:       string(r.PlayerTeamID),
		Position:     string(r.Position),
		Jersey:       digitsRegex.FindString(string(r.Jersey)),
		Salary:       r.Salary.Float(),
		TotalPoints:  r.TotalPoints.Int(),
		Status:       int(r.PlayerStatus.Int()),
		WeeklyScores: scores,
	}
}
