// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - Request body size limits
//
// AppConfig is where everything specific to ResourceHub lives. The struct
// is passed to most lifecycle hooks, so any configuration needed during
// startup, request handling, or shutdown belongs here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: resourcehub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Reference data
	CategorySeedFile string // YAML file of categories upserted at startup (blank uses the built-in list)

	// Login throttling
	LoginRateLimit  int           // Failed attempts allowed per IP and per email inside the window
	LoginRateWindow time.Duration // Sliding window for LoginRateLimit

	// TrustProxyHeaders takes the client IP from forwarding headers. Only
	// safe when a reverse proxy overwrites them.
	TrustProxyHeaders bool

	// Admin bootstrap
	AdminEmail string // Existing account promoted to admin on startup

	// Audit logging destinations: "all", "db", "log" or "off"
	AuditAuth    string
	AuditContent string
	AuditAdmin   string
}
