// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for DeckHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: DECKHUB_MONGO_URI, DECKHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "deckhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "deckhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_ttl", Default: "168h", Desc: "Session lifetime (e.g., 24h, 168h)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_sharing", Default: "all", Desc: "Sharing event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Login throttling
	{Name: "login_ip_limit", Default: 10, Desc: "Max login attempts per IP per window"},
	{Name: "login_ip_window", Default: "1m", Desc: "IP throttle window"},
	{Name: "login_email_limit", Default: 5, Desc: "Max login attempts per email per window"},
	{Name: "login_email_window", Default: "5m", Desc: "Email throttle window"},
	{Name: "login_limit_disabled", Default: false, Desc: "Disable login throttling entirely"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, DECKHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "DECKHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionTTL:    appValues.Duration("session_ttl", 168*time.Hour),

		AuditLogAuth:    appValues.String("audit_log_auth"),
		AuditLogSharing: appValues.String("audit_log_sharing"),

		LoginIPLimit:       appValues.Int("login_ip_limit"),
		LoginIPWindow:      appValues.Duration("login_ip_window", time.Minute),
		LoginEmailLimit:    appValues.Int("login_email_limit"),
		LoginEmailWindow:   appValues.Duration("login_email_window", 5*time.Minute),
		LoginLimitDisabled: appValues.Bool("login_limit_disabled"),
	}

	return coreCfg, appCfg, nil
}

// validAuditMode reports whether s names one of the audit logging modes.
func validAuditMode(s string) bool {
	switch s {
	case "all", "db", "log", "off":
		return true
	}
	return false
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// DeckHub validates the MongoDB URI format and the audit mode names to
// catch configuration errors early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}

	if !validAuditMode(appCfg.AuditLogAuth) {
		return fmt.Errorf("audit_log_auth: unknown mode %q (want all, db, log, or off)", appCfg.AuditLogAuth)
	}
	if !validAuditMode(appCfg.AuditLogSharing) {
		return fmt.Errorf("audit_log_sharing: unknown mode %q (want all, db, log, or off)", appCfg.AuditLogSharing)
	}

	if appCfg.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %s", appCfg.SessionTTL)
	}

	return nil
}
