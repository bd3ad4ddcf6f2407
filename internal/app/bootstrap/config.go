// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for MeetHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: MEETHUB_MONGO_URI, MEETHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "meethub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "jwt_secret", Default: "", Desc: "JWT signing secret (32+ random chars; required)"},
	{Name: "jwt_expiry", Default: "720h", Desc: "JWT lifetime (e.g., 24h, 720h)"},

	{Name: "cors_origins", Default: "*", Desc: "Comma-separated allowed origins, or '*'"},

	// Login rate limiting
	{Name: "login_ip_limit", Default: 20, Desc: "Login attempts allowed per IP per window"},
	{Name: "login_ip_window", Default: "1m", Desc: "Per-IP login rate window"},
	{Name: "login_email_limit", Default: 5, Desc: "Login attempts allowed per email per window"},
	{Name: "login_email_window", Default: "5m", Desc: "Per-email login rate window"},

	// Bootstrap admin (created on startup when no such user exists)
	{Name: "admin_name", Default: "Administrator", Desc: "Bootstrap admin display name"},
	{Name: "admin_email", Default: "", Desc: "Bootstrap admin email (blank disables bootstrap)"},
	{Name: "admin_password", Default: "", Desc: "Bootstrap admin password"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "MEETHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		JWTExpiry: appValues.Duration("jwt_expiry", 720*time.Hour),

		CORSOrigins: appValues.String("cors_origins"),

		LoginIPLimit:     appValues.Int("login_ip_limit"),
		LoginIPWindow:    appValues.Duration("login_ip_window", time.Minute),
		LoginEmailLimit:  appValues.Int("login_email_limit"),
		LoginEmailWindow: appValues.Duration("login_email_window", 5*time.Minute),

		AdminName:     appValues.String("admin_name"),
		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// MeetHub validates the MongoDB URI format and the JWT secret here so
// misconfiguration surfaces before any connection attempt.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required (set MEETHUB_JWT_SECRET)")
	}

	if appCfg.AdminEmail != "" && appCfg.AdminPassword == "" {
		return fmt.Errorf("admin_email is set but admin_password is empty")
	}

	return nil
}
