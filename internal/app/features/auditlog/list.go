// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/deckhub/internal/app/store/audit"
	deckstore "github.com/dalemusser/deckhub/internal/app/store/decks"
	"github.com/dalemusser/deckhub/internal/app/system/authz"
	"github.com/dalemusser/deckhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const pageSize = 50

type listItem struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	EventType     string            `json:"event_type"`
	UserID        string            `json:"user_id,omitempty"`
	IP            string            `json:"ip,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

type listResponse struct {
	Events     []listItem `json:"events"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	TotalPages int64      `json:"total_pages"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ServeList handles GET /decks/{deckID}/audit - the deck's sharing history.
//
// Only the deck owner may read it. Supports ?event_type=, ?start_date= /
// ?end_date= (YYYY-MM-DD), and ?page= (50 events per page, newest first).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	deck, err := h.Decks.GetByID(ctx, deckID)
	if err != nil {
		if errors.Is(err, deckstore.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "deck not found"})
			return
		}
		h.Log.Error("audit list: deck lookup failed",
			zap.String("deck_id", deckID.Hex()),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	if !deck.IsOwner(userID.Hex()) {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
		return
	}

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	filter := audit.QueryFilter{
		DeckID:    &deckID,
		Category:  audit.CategorySharing,
		EventType: strings.TrimSpace(r.URL.Query().Get("event_type")),
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}

	if s := strings.TrimSpace(r.URL.Query().Get("start_date")); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.StartTime = &t
		}
	}
	if s := strings.TrimSpace(r.URL.Query().Get("end_date")); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			// End of day
			endOfDay := t.Add(24*time.Hour - time.Second)
			filter.EndTime = &endOfDay
		}
	}

	events, err := h.Audit.Query(ctx, filter)
	if err != nil {
		h.Log.Error("audit list: query failed",
			zap.String("deck_id", deckID.Hex()),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	total, err := h.Audit.CountByFilter(ctx, filter)
	if err != nil {
		h.Log.Error("audit list: count failed",
			zap.String("deck_id", deckID.Hex()),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		item := listItem{
			ID:            e.ID.Hex(),
			Timestamp:     e.Timestamp,
			EventType:     e.EventType,
			IP:            e.IP,
			Success:       e.Success,
			FailureReason: e.FailureReason,
			Details:       e.Details,
		}
		if e.UserID != nil {
			item.UserID = e.UserID.Hex()
		}
		items = append(items, item)
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	writeJSON(w, http.StatusOK, listResponse{
		Events:     items,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	})
}
