// internal/app/features/invites/handler.go
package invites

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/deckhub/internal/app/system/auditlog"
	"github.com/dalemusser/deckhub/internal/app/system/authz"
	"github.com/dalemusser/deckhub/internal/app/system/invitetoken"
	"github.com/dalemusser/deckhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AcceptService is what the handler needs from the service layer.
type AcceptService interface {
	Accept(ctx context.Context, deckID primitive.ObjectID, tokenHash, callerID string) (AcceptResult, error)
	Preview(ctx context.Context, deckID primitive.ObjectID, tokenHash string) (PreviewResult, error)
}

// Handler serves the invite acceptance endpoints.
type Handler struct {
	Svc   AcceptService
	Audit *auditlog.Logger
	Log   *zap.Logger
}

// NewHandler constructs an invites Handler.
func NewHandler(svc AcceptService, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Audit: audit, Log: logger}
}

type acceptRequest struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// domainStatus maps a rejection code to its HTTP status. Revoked and
// expired are conflicts: the invite exists but is no longer redeemable.
func domainStatus(code string) int {
	switch code {
	case CodeInviteNotFound:
		return http.StatusNotFound
	case CodeInviteExpired, CodeInviteRevoked:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Accept handles POST /decks/{deckID}/invites/accept.
//
// Body: {"token": "<raw invite token>"}. The raw token is hashed here and
// only the hash travels further down; it never appears in logs or storage.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	deckID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "deckID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid deck id"})
		return
	}

	var req acceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing invite token"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res, err := h.Svc.Accept(ctx, deckID, invitetoken.Hash(req.Token), userID.Hex())
	if err != nil {
		h.respondAcceptError(ctx, w, r, err, userID, deckID)
		return
	}

	h.Audit.InviteAccepted(ctx, r, userID, deckID, res.Role, res.AlreadyMember)
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) respondAcceptError(ctx context.Context, w http.ResponseWriter, r *http.Request, err error, callerID, deckID primitive.ObjectID) {
	if de, ok := AsDomainError(err); ok {
		h.Audit.InviteAcceptDenied(ctx, r, callerID, deckID, de.Code)
		writeJSON(w, domainStatus(de.Code), errorResponse{Error: de.Code})
		return
	}

	h.Log.Error("invite accept failed",
		zap.String("deck_id", deckID.Hex()),
		zap.String("user_id", callerID.Hex()),
		zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

// Preview handles GET /decks/{deckID}/invites/{token}. It shows what the
// invite grants without redeeming it.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	deckID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "deckID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid deck id"})
		return
	}

	token := chi.URLParam(r, "token")
	if token == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing invite token"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Svc.Preview(ctx, deckID, invitetoken.Hash(token))
	if err != nil {
		if de, ok := AsDomainError(err); ok {
			writeJSON(w, domainStatus(de.Code), errorResponse{Error: de.Code})
			return
		}
		h.Log.Error("invite preview failed",
			zap.String("deck_id", deckID.Hex()),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, res)
}
