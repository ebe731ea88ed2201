package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/dalemusser/deckhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID    string
	Name  string
	Email string
}

// SignedInUser returns a TestUser with a fresh ID.
func SignedInUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test User",
		Email: "user@test.com",
	}
}

// WithUser injects the test user into the request context, simulating what
// the session middleware does for a signed-in request.
func WithUser(r *http.Request, u TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	})
}

// NewAuthenticatedRequest builds a request with the test user already in
// context.
func NewAuthenticatedRequest(method, target string, body io.Reader, u TestUser) *http.Request {
	r := httptest.NewRequest(method, target, body)
	return WithUser(r, u)
}
