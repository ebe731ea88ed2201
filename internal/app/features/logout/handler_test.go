package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/deckhub/internal/app/features/logout"
	"github.com/dalemusser/deckhub/internal/app/system/auth"
	"github.com/dalemusser/deckhub/internal/testutil"
	"go.uber.org/zap"
)

func newSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func TestHandleLogout_ClearsSession(t *testing.T) {
	sm := newSessionManager(t)
	h := logout.NewHandler(sm, nil, zap.NewNop())

	u := testutil.SignedInUser()
	req := testutil.NewAuthenticatedRequest("POST", "/logout", nil, u)
	rec := httptest.NewRecorder()

	h.HandleLogout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected session cookie to be expired")
	}
}

func TestLogoutRoutes_RequiresSignIn(t *testing.T) {
	sm := newSessionManager(t)
	h := logout.NewHandler(sm, nil, zap.NewNop())
	r := logout.Routes(h, sm)

	req := httptest.NewRequest("POST", "/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a session, got %d", rec.Code)
	}
}
