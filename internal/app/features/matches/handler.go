// internal/app/features/matches/handler.go

// Package matches exposes the match schedule and results, with all
// mutations routed through the lifecycle engine so state transitions,
// winner derivation, and point awards stay in one place.
package matches

import (
	"github.com/campusgames/meethub/internal/app/lifecycle"
	matchstore "github.com/campusgames/meethub/internal/app/store/matches"
	"go.uber.org/zap"
)

// Handler holds the dependencies of the match endpoints.
type Handler struct {
	Engine  *lifecycle.Engine
	Matches *matchstore.Store
	Log     *zap.Logger
}

// NewHandler constructs a matches Handler.
func NewHandler(engine *lifecycle.Engine, matches *matchstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Engine: engine, Matches: matches, Log: logger}
}
