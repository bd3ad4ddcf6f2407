// internal/app/features/auth/routes.go
package auth

import (
	appauth "github.com/campusgames/meethub/internal/app/system/auth"
	"github.com/campusgames/meethub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted under /auth.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(appauth.RequireAuth)
		pr.Get("/me", h.ServeMe)
		pr.Put("/profile", h.HandleProfile)
		pr.Put("/change-password", h.HandleChangePassword)
	})

	return r
}

// UserRoutes returns the admin-only subrouter mounted under /users.
func UserRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(appauth.RequireRole(models.RoleAdmin))

	r.Get("/", h.ServeUserList)
	r.Post("/", h.HandleCreateUser)
	r.Put("/{id}", h.HandleUpdateUser)

	return r
}
