package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/deckhub/internal/app/system/invitetoken"
	"github.com/dalemusser/deckhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Repeated calls accumulate params on the same route context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user. The password, if non-empty, is stored as a
// bcrypt hash the way the login handler expects.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, password string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			f.t.Fatalf("failed to hash test password: %v", err)
		}
		u.PasswordHash = string(hash)
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateDeck creates a test deck owned by ownerID with the given
// collaborator roles. The collaborator set is derived from roles, matching
// what the deck store maintains.
func (f *Fixtures) CreateDeck(ctx context.Context, title, ownerID string, roles map[string]string) models.Deck {
	f.t.Helper()

	now := time.Now().UTC()
	deck := models.Deck{
		ID:              primitive.NewObjectID(),
		Title:           title,
		TitleCI:         text.Fold(title),
		OwnerID:         ownerID,
		Roles:           map[string]string{ownerID: "owner"},
		CollaboratorIDs: []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for id, role := range roles {
		deck.Roles[id] = role
		if id != ownerID {
			deck.CollaboratorIDs = append(deck.CollaboratorIDs, id)
		}
	}

	if _, err := f.db.Collection("decks").InsertOne(ctx, deck); err != nil {
		f.t.Fatalf("failed to create test deck: %v", err)
	}
	return deck
}

// CreateInvite creates a test invite for deckID and returns it along with
// the raw token a real invitee would present. Status and expiry come from
// the arguments so tests can seed expired or revoked invites directly.
func (f *Fixtures) CreateInvite(ctx context.Context, deckID primitive.ObjectID, inviterID, role, status string, expiresAt time.Time) (models.Invite, string) {
	f.t.Helper()

	rawToken := uuid.NewString()
	now := time.Now().UTC()
	inv := models.Invite{
		ID:            primitive.NewObjectID(),
		DeckID:        deckID,
		InviterID:     inviterID,
		EmailLower:    "invitee@example.com",
		RoleRequested: role,
		Status:        status,
		TokenHash:     invitetoken.Hash(rawToken),
		ExpiresAt:     expiresAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("invites").InsertOne(ctx, inv); err != nil {
		f.t.Fatalf("failed to create test invite: %v", err)
	}
	return inv, rawToken
}
