// internal/app/features/matches/routes.go
package matches

import (
	appauth "github.com/campusgames/meethub/internal/app/system/auth"
	"github.com/campusgames/meethub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted under /matches. The fixed-word
// paths are registered before /{id} so chi never parses them as IDs.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeMatchList)
	r.Get("/live", h.ServeLive)
	r.Get("/upcoming", h.ServeUpcoming)
	r.Get("/finished", h.ServeFinished)
	r.Get("/stats", h.ServeStats)
	r.Get("/{id}", h.ServeMatch)

	r.Group(func(pr chi.Router) {
		pr.Use(appauth.RequireRole(models.RoleAdmin, models.RoleScoreUploader))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Patch("/{id}/start", h.HandleStart)
		pr.Patch("/{id}/finish", h.HandleFinish)
	})

	r.With(appauth.RequireRole(models.RoleAdmin)).Delete("/{id}", h.HandleDelete)

	return r
}

// ScoreRoutes returns the subrouter mounted under /scores: the
// PATCH /scores/{id} alias used by score uploaders.
func ScoreRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.With(appauth.RequireRole(models.RoleAdmin, models.RoleScoreUploader)).
		Patch("/{id}", h.HandleUpdateScores)
	return r
}
