package auditlog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	auditlogfeature "github.com/dalemusser/deckhub/internal/app/features/auditlog"
	"github.com/dalemusser/deckhub/internal/app/store/audit"
	deckstore "github.com/dalemusser/deckhub/internal/app/store/decks"
	"github.com/dalemusser/deckhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestServeList_OwnerSeesSharingEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := testutil.SignedInUser()
	deck := fx.CreateDeck(ctx, "Spanish Verbs", owner.ID, nil)

	auditStore := audit.New(db)
	accepterID := primitive.NewObjectID()
	for _, et := range []string{audit.EventInviteAccepted, audit.EventInviteAcceptDenied} {
		err := auditStore.Log(ctx, audit.Event{
			Category:  audit.CategorySharing,
			EventType: et,
			UserID:    &accepterID,
			DeckID:    &deck.ID,
			Success:   et == audit.EventInviteAccepted,
		})
		if err != nil {
			t.Fatalf("failed to seed audit event: %v", err)
		}
	}
	// An auth event for the same user must not show up in deck history.
	if err := auditStore.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &accepterID,
		Success:   true,
	}); err != nil {
		t.Fatalf("failed to seed auth event: %v", err)
	}

	h := auditlogfeature.NewHandler(deckstore.New(db), auditStore, zap.NewNop())

	req := testutil.NewAuthenticatedRequest("GET", "/decks/"+deck.ID.Hex()+"/audit", nil, owner)
	req = testutil.WithChiURLParam(req, "deckID", deck.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		Events []struct {
			EventType string `json:"event_type"`
			UserID    string `json:"user_id"`
		} `json:"events"`
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		TotalPages int64 `json:"total_pages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if res.Total != 2 || len(res.Events) != 2 {
		t.Errorf("expected 2 sharing events, got total=%d len=%d", res.Total, len(res.Events))
	}
	if res.Page != 1 || res.TotalPages != 1 {
		t.Errorf("expected page 1/1, got %d/%d", res.Page, res.TotalPages)
	}
	for _, e := range res.Events {
		if e.UserID != accepterID.Hex() {
			t.Errorf("event user: got %s, want %s", e.UserID, accepterID.Hex())
		}
	}
}

func TestServeList_FilterByEventType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := testutil.SignedInUser()
	deck := fx.CreateDeck(ctx, "Capitals", owner.ID, nil)

	auditStore := audit.New(db)
	for _, et := range []string{audit.EventInviteAccepted, audit.EventInviteAccepted, audit.EventInviteAcceptDenied} {
		if err := auditStore.Log(ctx, audit.Event{
			Category:  audit.CategorySharing,
			EventType: et,
			DeckID:    &deck.ID,
		}); err != nil {
			t.Fatalf("failed to seed audit event: %v", err)
		}
	}

	h := auditlogfeature.NewHandler(deckstore.New(db), auditStore, zap.NewNop())

	req := testutil.NewAuthenticatedRequest("GET",
		"/decks/"+deck.ID.Hex()+"/audit?event_type="+audit.EventInviteAccepted, nil, owner)
	req = testutil.WithChiURLParam(req, "deckID", deck.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var res struct {
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if res.Total != 2 {
		t.Errorf("expected 2 accepted events, got %d", res.Total)
	}
}

func TestServeList_NonOwnerForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := testutil.SignedInUser()
	editor := testutil.SignedInUser()
	deck := fx.CreateDeck(ctx, "Kanji", owner.ID, map[string]string{editor.ID: "editor"})

	h := auditlogfeature.NewHandler(deckstore.New(db), audit.New(db), zap.NewNop())

	req := testutil.NewAuthenticatedRequest("GET", "/decks/"+deck.ID.Hex()+"/audit", nil, editor)
	req = testutil.WithChiURLParam(req, "deckID", deck.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a non-owner, got %d", rec.Code)
	}
}

func TestServeList_DeckNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := auditlogfeature.NewHandler(deckstore.New(db), audit.New(db), zap.NewNop())

	missing := primitive.NewObjectID()
	req := testutil.NewAuthenticatedRequest("GET", "/decks/"+missing.Hex()+"/audit", nil, testutil.SignedInUser())
	req = testutil.WithChiURLParam(req, "deckID", missing.Hex())
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a missing deck, got %d", rec.Code)
	}
}

func TestServeList_BadDeckID(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := auditlogfeature.NewHandler(deckstore.New(db), audit.New(db), zap.NewNop())

	req := testutil.NewAuthenticatedRequest("GET", "/decks/nope/audit", nil, testutil.SignedInUser())
	req = testutil.WithChiURLParam(req, "deckID", "nope")
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a malformed deck id, got %d", rec.Code)
	}
}
