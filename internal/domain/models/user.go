// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles, in decreasing order of privilege.
const (
	RoleAdmin         = "admin"
	RoleScoreUploader = "score_uploader"
	RoleCaptain       = "captain"
	RoleStudent       = "student"
	RoleGuest         = "guest"
)

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleScoreUploader, RoleCaptain, RoleStudent, RoleGuest:
		return true
	}
	return false
}

// User represents an account in the meet: admins, score uploaders,
// house captains, students, and guests.
//
// Password holds the bcrypt hash and is never serialized to JSON.
type User struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name     string              `bson:"name" json:"name"`
	Email    string              `bson:"email" json:"email"` // lowercase, unique
	Password string              `bson:"password" json:"-"`
	Role     string              `bson:"role" json:"role"`
	HouseID  *primitive.ObjectID `bson:"house_id,omitempty" json:"house_id,omitempty"`
	IsActive bool                `bson:"is_active" json:"is_active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
