// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/deckhub/internal/app/store/users"
	"github.com/dalemusser/deckhub/internal/app/system/auditlog"
	"github.com/dalemusser/deckhub/internal/app/system/auth"
	"github.com/dalemusser/deckhub/internal/app/system/normalize"
	"github.com/dalemusser/deckhub/internal/app/system/ratelimit"
	"github.com/dalemusser/deckhub/internal/app/system/status"
	"github.com/dalemusser/deckhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger
}

func NewHandler(users *userstore.Store, sessionMgr *auth.SessionManager, audit *auditlog.Logger, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Limiter:    limiter,
		Log:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User userView `json:"user"`
}

type userView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, stat int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(stat)
	_ = json.NewEncoder(w).Encode(v)
}

// HandleLogin handles POST /login.
//
// Unknown email and wrong password return the same 401 body so the endpoint
// does not disclose which emails have accounts; the audit trail records the
// real reason.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email and password are required"})
		return
	}
	email := normalize.Email(req.Email)

	if h.Limiter != nil {
		if allowed, reason := h.Limiter.Check(r, email); !allowed {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: reason})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid email or password"})
			return
		}
		h.Log.Error("login: user lookup failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	if normalize.Status(user.Status) == status.Disabled {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, user.ID, email)
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "account disabled"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, user.ID, email)
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid email or password"})
		return
	}

	su := &auth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Email: user.Email,
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Error("login: session save failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}
	h.AuditLog.LoginSuccess(ctx, r, user.ID, email)

	writeJSON(w, http.StatusOK, loginResponse{User: userView{
		ID:    su.ID,
		Name:  su.Name,
		Email: su.Email,
	}})
}
