// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	auditlogfeature "github.com/dalemusser/deckhub/internal/app/features/auditlog"
	healthfeature "github.com/dalemusser/deckhub/internal/app/features/health"
	invitesfeature "github.com/dalemusser/deckhub/internal/app/features/invites"
	loginfeature "github.com/dalemusser/deckhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/deckhub/internal/app/features/logout"
	"github.com/dalemusser/deckhub/internal/app/store/audit"
	deckstore "github.com/dalemusser/deckhub/internal/app/store/decks"
	invitestore "github.com/dalemusser/deckhub/internal/app/store/invites"
	userstore "github.com/dalemusser/deckhub/internal/app/store/users"
	"github.com/dalemusser/deckhub/internal/app/system/auditlog"
	"github.com/dalemusser/deckhub/internal/app/system/auth"
	"github.com/dalemusser/deckhub/internal/app/system/ratelimit"
	"github.com/dalemusser/deckhub/internal/app/system/txn"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. DeckHub wires the session manager,
// audit logging, and the invite-acceptance service here, then mounts the
// feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.DeckHubMongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionTTL, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fetch fresh user data on each request so disabled accounts and
	// profile updates take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:    appCfg.AuditLogAuth,
		Sharing: appCfg.AuditLogSharing,
	})

	var loginLimiter *ratelimit.LoginLimiter
	if !appCfg.LoginLimitDisabled {
		loginLimiter = ratelimit.NewLoginLimiterWithConfig(
			appCfg.LoginIPLimit, appCfg.LoginIPWindow,
			appCfg.LoginEmailLimit, appCfg.LoginEmailWindow,
		)
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.DeckHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(userstore.New(db), sessionMgr, auditLog, loginLimiter, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Invite acceptance: the service runs each accept in a single Mongo
	// transaction so the deck grant and the invite status change land
	// together.
	runner := txn.NewMongo(deps.DeckHubMongoClient, logger)
	invitesSvc := invitesfeature.NewService(deckstore.New(db), invitestore.New(db), runner, logger)
	invitesHandler := invitesfeature.NewHandler(invitesSvc, auditLog, logger)
	r.Mount("/decks/{deckID}/invites", invitesfeature.Routes(invitesHandler, sessionMgr.RequireSignedIn))

	// Sharing history for deck owners
	auditHandler := auditlogfeature.NewHandler(deckstore.New(db), audit.New(db), logger)
	r.Mount("/decks/{deckID}/audit", auditlogfeature.Routes(auditHandler, sessionMgr.RequireSignedIn))

	return r, nil
}
