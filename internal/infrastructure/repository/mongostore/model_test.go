package mongostore

import (
	"testing"
	"time"

	"github.com/slfantasy/fantasy-manager/internal/domain/manager"
	"github.com/slfantasy/fantasy-manager/internal/domain/player"
	"go.mongodb.org/mongo-driver/bson"
)

func TestPlayerDocument_RoundTripsThroughBSON(t *testing.T) {
	p := player.Player{
		ID:       "65f1c0a2b3c4d5e6f7a8b9c0",
		UID:      "isl-pl-103",
		TeamID:   "1143",
		FullName: "Sunil Chhetri",
		Salary:   10.5,
		WeeklyScores: []player.WeeklyScore{
			{Week: 1, Score: 8, SeasonGameUID: "g1"},
		},
		UpdatedAt: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}

	raw, err := bson.Marshal(playerFromDomain(p))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc playerDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := doc.toDomain()
	if got.ID != p.ID || got.UID != p.UID || got.WeeklyScores[0] != p.WeeklyScores[0] {
		t.Fatalf("unexpected player: %+v", got)
	}
	if doc.PlayerName != "Sunil Chhetri" {
		t.Fatalf("expected legacy player_name to be populated")
	}
}

func TestPlayerDocument_FallsBackToLegacyName(t *testing.T) {
	got := playerDocument{PlayerUID: "p", PlayerName: "Legacy Name"}.toDomain()
	if got.FullName != "Legacy Name" {
		t.Fatalf("expected legacy name fallback, got %q", got.FullName)
	}
	if got.WeeklyScores == nil {
		t.Fatalf("expected empty weekly scores slice")
	}
}

func TestManagerDocument_NormalizesEmailAndRoster(t *testing.T) {
	m := manager.New("m-1", "Coach@Example.com", 100, time.Now())
	m.Players = nil

	doc := managerFromDomain(m)
	if doc.Email != "coach@example.com" || doc.Players == nil {
		t.Fatalf("unexpected document: %+v", doc)
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := fields["cover_pic"]; ok {
		t.Fatalf("empty cover_pic should be omitted")
	}
	if fields["manager_rank"] != int32(manager.UnrankedSentinel) {
		t.Fatalf("unexpected manager_rank: %#v", fields["manager_rank"])
	}
}
