// internal/app/features/announcements/routes.go
package announcements

import (
	appauth "github.com/campusgames/meethub/internal/app/system/auth"
	"github.com/campusgames/meethub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted under /announcements. Reads are
// public; posting needs a posting role, and edit/delete ownership is
// checked in the handlers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/recent", h.ServeRecent)
	r.Get("/stats", h.ServeStats)
	r.Get("/house/{id}", h.ServeByHouse)
	r.Get("/{id}", h.ServeAnnouncement)

	r.With(appauth.RequireRole(models.RoleAdmin, models.RoleCaptain, models.RoleScoreUploader)).
		Post("/", h.HandleCreate)

	r.Group(func(pr chi.Router) {
		pr.Use(appauth.RequireAuth)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	r.With(appauth.RequireRole(models.RoleAdmin)).
		Patch("/{id}/toggle", h.HandleToggle)

	return r
}
