// internal/app/features/houses/handler.go

// Package houses exposes the house roster, leaderboard, and the admin
// management endpoints, including the delete cascade that detaches
// members and demotes the captain.
package houses

import (
	housestore "github.com/campusgames/meethub/internal/app/store/houses"
	matchstore "github.com/campusgames/meethub/internal/app/store/matches"
	userstore "github.com/campusgames/meethub/internal/app/store/users"
	"go.uber.org/zap"
)

// Handler holds the dependencies of the house endpoints.
type Handler struct {
	Houses  *housestore.Store
	Users   *userstore.Store
	Matches *matchstore.Store
	Log     *zap.Logger
}

// NewHandler constructs a houses Handler.
func NewHandler(houses *housestore.Store, users *userstore.Store, matches *matchstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Houses: houses, Users: users, Matches: matches, Log: logger}
}
