// internal/domain/models/announcement.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ValidPriority reports whether p is a known announcement priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Announcement is a message posted to the whole meet or scoped to one
// house. A nil HouseID means global visibility.
type Announcement struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`     // <=200 chars
	Message     string              `bson:"message" json:"message"` // <=1000 chars
	Priority    string              `bson:"priority" json:"priority"`
	HouseID     *primitive.ObjectID `bson:"house_id,omitempty" json:"house_id,omitempty"`
	CreatedByID primitive.ObjectID  `bson:"created_by_id" json:"created_by_id"`
	IsActive    bool                `bson:"is_active" json:"is_active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
