// internal/testutil/http.go
package testutil

import (
	"net/http"

	"github.com/campusgames/meethub/internal/app/system/auth"
	"github.com/campusgames/meethub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminIdentity returns an authenticated admin identity for handler tests.
func AdminIdentity() *auth.Identity {
	return &auth.Identity{
		ID:    primitive.NewObjectID(),
		Name:  "Test Admin",
		Email: "admin@test.com",
		Role:  models.RoleAdmin,
	}
}

// UploaderIdentity returns a score-uploader identity.
func UploaderIdentity() *auth.Identity {
	return &auth.Identity{
		ID:    primitive.NewObjectID(),
		Name:  "Test Uploader",
		Email: "uploader@test.com",
		Role:  models.RoleScoreUploader,
	}
}

// CaptainIdentity returns a captain identity bound to the given house.
func CaptainIdentity(houseID primitive.ObjectID) *auth.Identity {
	return &auth.Identity{
		ID:      primitive.NewObjectID(),
		Name:    "Test Captain",
		Email:   "captain@test.com",
		Role:    models.RoleCaptain,
		HouseID: &houseID,
	}
}

// StudentIdentity returns a plain student identity.
func StudentIdentity() *auth.Identity {
	return &auth.Identity{
		ID:    primitive.NewObjectID(),
		Name:  "Test Student",
		Email: "student@test.com",
		Role:  models.RoleStudent,
	}
}

// AsUser injects the identity into the request, bypassing token parsing.
func AsUser(r *http.Request, id *auth.Identity) *http.Request {
	return auth.WithTestUser(r, id)
}
