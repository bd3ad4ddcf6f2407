// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"

	announcementsfeature "github.com/campusgames/meethub/internal/app/features/announcements"
	authfeature "github.com/campusgames/meethub/internal/app/features/auth"
	healthfeature "github.com/campusgames/meethub/internal/app/features/health"
	housesfeature "github.com/campusgames/meethub/internal/app/features/houses"
	matchesfeature "github.com/campusgames/meethub/internal/app/features/matches"
	realtimefeature "github.com/campusgames/meethub/internal/app/features/realtime"
	"github.com/campusgames/meethub/internal/app/lifecycle"
	announcementstore "github.com/campusgames/meethub/internal/app/store/announcements"
	housestore "github.com/campusgames/meethub/internal/app/store/houses"
	matchstore "github.com/campusgames/meethub/internal/app/store/matches"
	userstore "github.com/campusgames/meethub/internal/app/store/users"
	"github.com/campusgames/meethub/internal/app/system/auth"
	"github.com/campusgames/meethub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It builds the stores and the lifecycle
// engine, wires the auth middleware, and mounts one feature router per
// API area.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	users := userstore.New(deps.MongoDatabase)
	houses := housestore.New(deps.MongoDatabase)
	matches := matchstore.New(deps.MongoDatabase)
	announcements := announcementstore.New(deps.MongoDatabase)

	tokens, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.JWTExpiry, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}
	authMw := auth.NewMiddleware(tokens, users, logger)

	logins := ratelimit.NewLoginLimiter(
		appCfg.LoginIPLimit, appCfg.LoginIPWindow,
		appCfg.LoginEmailLimit, appCfg.LoginEmailWindow)

	// The hub was started in Startup; the engine and the announcement
	// handlers publish through it.
	engine := lifecycle.New(matches, houses, hub, logger)

	r := chi.NewRouter()

	r.Use(cors.New(cors.Options{
		AllowedOrigins:   splitOrigins(appCfg.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	// Global auth middleware: resolves bearer tokens into a request
	// identity; anonymous requests continue and hit the per-route guards.
	r.Use(authMw.Authenticate)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	authHandler := authfeature.NewHandler(users, houses, tokens, logins, logger)
	r.Mount("/auth", authfeature.Routes(authHandler))
	r.Mount("/users", authfeature.UserRoutes(authHandler))

	housesHandler := housesfeature.NewHandler(houses, users, matches, logger)
	r.Mount("/houses", housesfeature.Routes(housesHandler))
	r.Get("/leaderboard", housesHandler.ServeHouseList)

	matchesHandler := matchesfeature.NewHandler(engine, matches, logger)
	r.Mount("/matches", matchesfeature.Routes(matchesHandler))
	r.Mount("/scores", matchesfeature.ScoreRoutes(matchesHandler))

	announcementsHandler := announcementsfeature.NewHandler(announcements, houses, hub, logger)
	r.Mount("/announcements", announcementsfeature.Routes(announcementsHandler))

	wsHandler := realtimefeature.NewHandler(hub, logger)
	r.Mount("/ws", realtimefeature.Routes(wsHandler))

	return r, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
