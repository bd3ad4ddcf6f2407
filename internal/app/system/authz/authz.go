// internal/app/system/authz/authz.go

// Package authz holds role predicates over the authenticated identity.
// Route-level role checks live in routes.go files via auth.RequireRole;
// these helpers cover the record-specific decisions handlers make after
// loading data (announcement ownership, captain house scoping).
package authz

import (
	"strings"

	"github.com/campusgames/meethub/internal/app/system/auth"
	"github.com/campusgames/meethub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsAdmin reports whether the identity has the admin role.
func IsAdmin(id *auth.Identity) bool {
	return id != nil && strings.ToLower(id.Role) == models.RoleAdmin
}

// HasAnyRole reports whether the identity has any of the given roles.
func HasAnyRole(id *auth.Identity, roles ...string) bool {
	if id == nil {
		return false
	}
	cur := strings.ToLower(id.Role)
	for _, want := range roles {
		if cur == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// CanManageAnnouncement reports whether the identity may update or delete
// the announcement: its creator, or an admin.
func CanManageAnnouncement(id *auth.Identity, a *models.Announcement) bool {
	if id == nil {
		return false
	}
	return IsAdmin(id) || a.CreatedByID == id.ID
}

// CaptainHouse returns the house a captain may post announcements to.
// Non-captains get a nil house and full scoping freedom.
func CaptainHouse(id *auth.Identity) (*primitive.ObjectID, bool) {
	if id == nil || strings.ToLower(id.Role) != models.RoleCaptain {
		return nil, false
	}
	return id.HouseID, true
}
