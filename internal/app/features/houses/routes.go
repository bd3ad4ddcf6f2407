// internal/app/features/houses/routes.go
package houses

import (
	appauth "github.com/campusgames/meethub/internal/app/system/auth"
	"github.com/campusgames/meethub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted under /houses. Reads are public;
// mutations are admin-only except the score override, which score
// uploaders may also hit.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeHouseList)
	r.Get("/{id}", h.ServeHouse)
	r.Get("/{id}/members", h.ServeMembers)
	r.Get("/{id}/stats", h.ServeStats)

	r.Group(func(pr chi.Router) {
		pr.Use(appauth.RequireRole(models.RoleAdmin))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	r.With(appauth.RequireRole(models.RoleAdmin, models.RoleScoreUploader)).
		Patch("/{id}/score", h.HandleSetScore)

	return r
}
