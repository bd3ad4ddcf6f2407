// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/campusgames/meethub/internal/app/features/realtime"
	userstore "github.com/campusgames/meethub/internal/app/store/users"
	"github.com/campusgames/meethub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// hub is the realtime fan-out shared between Startup (which runs it),
// BuildHandler (which mounts it and feeds it events), and Shutdown.
var (
	hub     *realtime.Hub
	hubStop context.CancelFunc
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It starts the realtime hub and makes sure the bootstrap admin exists.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	hub = realtime.NewHub(logger)
	var hubCtx context.Context
	hubCtx, hubStop = context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	return ensureAdmin(ctx, appCfg, deps, logger)
}

// ensureAdmin creates the configured admin account when no user with
// that email exists yet. An existing user is left untouched, including
// their role, so a demoted account cannot silently re-promote itself.
func ensureAdmin(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail == "" {
		return nil
	}

	users := userstore.New(deps.MongoDatabase)
	if _, err := users.GetByEmail(ctx, appCfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, userstore.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(appCfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u, err := users.Create(ctx, models.User{
		Name:     appCfg.AdminName,
		Email:    appCfg.AdminEmail,
		Password: string(hash),
		Role:     models.RoleAdmin,
	})
	if err != nil {
		// Lost a race against a concurrent instance; the account exists.
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			return nil
		}
		return err
	}

	logger.Info("bootstrap admin created", zap.String("user_id", u.ID.Hex()))
	return nil
}
