// internal/app/features/auth/handler.go

// Package auth exposes registration, login, and account self-service,
// plus the admin user-management endpoints.
package auth

import (
	housestore "github.com/campusgames/meethub/internal/app/store/houses"
	userstore "github.com/campusgames/meethub/internal/app/store/users"
	appauth "github.com/campusgames/meethub/internal/app/system/auth"
	"github.com/campusgames/meethub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Handler holds the dependencies of the auth endpoints.
type Handler struct {
	Users  *userstore.Store
	Houses *housestore.Store
	Tokens *appauth.TokenManager
	Logins *ratelimit.LoginLimiter
	Log    *zap.Logger
}

// NewHandler constructs an auth Handler.
func NewHandler(users *userstore.Store, houses *housestore.Store, tokens *appauth.TokenManager, logins *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  users,
		Houses: houses,
		Tokens: tokens,
		Logins: logins,
		Log:    logger,
	}
}

const minPasswordLen = 6
