// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/deckhub/internal/app/policy/rolepolicy"
	"github.com/dalemusser/deckhub/internal/app/system/auth"
	"github.com/dalemusser/deckhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the signed-in user's Mongo ObjectID, name, and a found
// flag. If no user is present in context or the user ID is malformed, it
// returns NilObjectID, "", false. This ensures callers can trust that
// ok=true means a valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (userID primitive.ObjectID, name string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, "", false
	}
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return primitive.NilObjectID, "", false
	}
	return oid, user.Name, true
}

// DeckRole returns the role the deck grants the current request's user,
// or "" when the user is signed out or holds no role on the deck.
func DeckRole(r *http.Request, d models.Deck) string {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return ""
	}
	return d.RoleOf(user.ID)
}

// CanView reports whether the current user may read the deck.
func CanView(r *http.Request, d models.Deck) bool {
	return rolepolicy.Subsumes(DeckRole(r, d), rolepolicy.RoleViewer)
}

// CanEdit reports whether the current user may modify the deck's cards.
func CanEdit(r *http.Request, d models.Deck) bool {
	return rolepolicy.Subsumes(DeckRole(r, d), rolepolicy.RoleEditor)
}

// IsOwner reports whether the current user owns the deck.
func IsOwner(r *http.Request, d models.Deck) bool {
	user, ok := auth.CurrentUser(r)
	return ok && d.IsOwner(user.ID)
}
