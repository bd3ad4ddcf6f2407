// internal/domain/models/match.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Match lifecycle states.
const (
	MatchUpcoming = "upcoming"
	MatchLive     = "live"
	MatchFinished = "finished"
)

// Sports offered at the meet. "Other" admits free-text descriptions.
var Sports = []string{
	"Football", "Basketball", "Cricket", "Volleyball", "Tennis",
	"Badminton", "Athletics", "Swimming", "Other",
}

// ValidSport reports whether sport is one of the enumerated sports.
func ValidSport(sport string) bool {
	for _, s := range Sports {
		if s == sport {
			return true
		}
	}
	return false
}

// DefaultMatchPoints is awarded to the winning house when a match finishes.
const DefaultMatchPoints = 10

// Match is a scheduled contest between two distinct houses.
//
// Winner is derived from (Score1, Score2) on every score change and at
// finish time: nil means a draw or not-yet-decided. FinishedAt is set
// exactly once, on the first transition into "finished".
type Match struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	House1ID primitive.ObjectID  `bson:"house1_id" json:"house1_id"`
	House2ID primitive.ObjectID  `bson:"house2_id" json:"house2_id"`
	Score1   int                 `bson:"score1" json:"score1"`
	Score2   int                 `bson:"score2" json:"score2"`
	Status   string              `bson:"status" json:"status"`
	WinnerID *primitive.ObjectID `bson:"winner_id,omitempty" json:"winner_id,omitempty"`

	MatchTime   time.Time          `bson:"match_time" json:"match_time"`
	Sport       string             `bson:"sport" json:"sport"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Venue       string             `bson:"venue,omitempty" json:"venue,omitempty"`
	Points      int                `bson:"points" json:"points"`
	CreatedByID primitive.ObjectID `bson:"created_by_id" json:"created_by_id"`
	FinishedAt  *time.Time         `bson:"finished_at,omitempty" json:"finished_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Involves reports whether the given house plays in this match.
func (m *Match) Involves(houseID primitive.ObjectID) bool {
	return m.House1ID == houseID || m.House2ID == houseID
}
