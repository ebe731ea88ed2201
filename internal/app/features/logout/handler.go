// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/deckhub/internal/app/system/auditlog"
	"github.com/dalemusser/deckhub/internal/app/system/auth"
	"github.com/dalemusser/deckhub/internal/app/system/authz"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
	}
}

// HandleLogout handles POST /logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if userID, _, ok := authz.UserCtx(r); ok {
		h.AuditLog.Logout(r.Context(), r, userID)
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: session clear failed", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
