// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, timeouts); AppConfig is everything specific to this service.
// The struct is passed to most lifecycle hooks, so any configuration
// needed during startup, request handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer-token auth
	JWTSecret string
	JWTExpiry time.Duration

	// Allowed browser origins for the REST and websocket endpoints.
	// Comma-separated; "*" allows any origin.
	CORSOrigins string

	// Login rate limiting
	LoginIPLimit     int
	LoginIPWindow    time.Duration
	LoginEmailLimit  int
	LoginEmailWindow time.Duration

	// Bootstrap admin account, created on startup when absent.
	AdminName     string
	AdminEmail    string
	AdminPassword string
}
