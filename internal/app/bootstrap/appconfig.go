// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and request limits. AppConfig is everything
// specific to DeckHub: the Mongo connection, session cookies, audit
// logging modes, and login throttling.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept warm in the pool

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: deckhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionTTL    time.Duration // How long a session cookie stays valid

	// Audit logging: "all" (db+log), "db", "log", or "off" per category.
	AuditLogAuth    string // login/logout events
	AuditLogSharing string // invite acceptance events

	// Login throttling (per client IP and per email, sliding windows).
	LoginIPLimit       int
	LoginIPWindow      time.Duration
	LoginEmailLimit    int
	LoginEmailWindow   time.Duration
	LoginLimitDisabled bool // turn throttling off entirely (tests, dev)
}
