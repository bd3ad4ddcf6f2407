// internal/domain/models/house.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// House is a team entity accumulating points across matches.
//
// TotalScore is mutated only by the match lifecycle engine's point awards
// and by the explicit admin score override.
type House struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"` // unique, <=50 chars
	NameCI      string              `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Color       string              `bson:"color" json:"color"` // 6-digit hex, e.g. #FF0000
	TotalScore  int                 `bson:"total_score" json:"total_score"`
	CaptainID   *primitive.ObjectID `bson:"captain_id,omitempty" json:"captain_id,omitempty"`
	Motto       string              `bson:"motto,omitempty" json:"motto,omitempty"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	IsActive    bool                `bson:"is_active" json:"is_active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HouseStats summarizes a house's finished-match record.
type HouseStats struct {
	TotalMatches int `json:"total_matches"`
	Wins         int `json:"wins"`
	Losses       int `json:"losses"`
	Draws        int `json:"draws"`
}
