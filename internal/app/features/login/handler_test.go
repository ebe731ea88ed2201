package login_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/deckhub/internal/app/features/login"
	userstore "github.com/dalemusser/deckhub/internal/app/store/users"
	"github.com/dalemusser/deckhub/internal/app/system/auth"
	"github.com/dalemusser/deckhub/internal/app/system/ratelimit"
	"github.com/dalemusser/deckhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*login.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
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
	h := login.NewHandler(userstore.New(db), sm, nil, nil, zap.NewNop())
	return h, testutil.NewFixtures(t, db)
}

func postLogin(h *login.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, req)
	return rec
}

func TestHandleLogin_Success(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Ada Lovelace", "ada@example.com", "correct horse")

	rec := postLogin(h, `{"email":"Ada@Example.com","password":"correct horse"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		User struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if res.User.ID != u.ID.Hex() {
		t.Errorf("expected user %s, got %s", u.ID.Hex(), res.User.ID)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie on successful login")
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "Ada Lovelace", "ada@example.com", "correct horse")

	rec := postLogin(h, `{"email":"ada@example.com","password":"wrong"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestHandleLogin_UnknownEmailSameBodyAsWrongPassword(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "Ada Lovelace", "ada@example.com", "correct horse")

	unknown := postLogin(h, `{"email":"nobody@example.com","password":"whatever"}`)
	wrongPw := postLogin(h, `{"email":"ada@example.com","password":"wrong"}`)

	if unknown.Code != http.StatusUnauthorized || wrongPw.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", unknown.Code, wrongPw.Code)
	}
	// Identical bodies so the endpoint doesn't reveal account existence.
	if unknown.Body.String() != wrongPw.Body.String() {
		t.Errorf("expected identical error bodies, got %q vs %q", unknown.Body.String(), wrongPw.Body.String())
	}
}

func TestHandleLogin_DisabledUser(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Ada Lovelace", "ada@example.com", "correct horse")
	store := userstore.New(fx.DB())
	if err := store.SetStatus(ctx, u.ID, "disabled"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	rec := postLogin(h, `{"email":"ada@example.com","password":"correct horse"}`)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestHandleLogin_MissingFields(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, body := range []string{`{}`, `{"email":"a@b.co"}`, `{"password":"x"}`, `garbage`} {
		rec := postLogin(h, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestHandleLogin_RateLimited(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "Ada Lovelace", "ada@example.com", "correct horse")
	h.Limiter = ratelimit.NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute)

	for i := 0; i < 2; i++ {
		rec := postLogin(h, `{"email":"ada@example.com","password":"wrong"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, rec.Code)
		}
	}

	rec := postLogin(h, `{"email":"ada@example.com","password":"wrong"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after limit, got %d", rec.Code)
	}

	// A different email from the same IP is not locked out.
	rec = postLogin(h, `{"email":"other@example.com","password":"whatever"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for other email, got %d", rec.Code)
	}
}
