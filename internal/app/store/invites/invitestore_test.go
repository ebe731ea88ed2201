package invitestore_test

import (
	"errors"
	"testing"
	"time"

	invitestore "github.com/dalemusser/deckhub/internal/app/store/invites"
	"github.com/dalemusser/deckhub/internal/app/system/invitetoken"
	"github.com/dalemusser/deckhub/internal/domain/models"
	"github.com/dalemusser/deckhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Invite{
		DeckID:        primitive.NewObjectID(),
		InviterID:     primitive.NewObjectID().Hex(),
		EmailLower:    "Invitee@Example.com",
		RoleRequested: "viewer",
		TokenHash:     invitetoken.Hash("raw-token"),
		ExpiresAt:     time.Now().Add(72 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Status != models.InviteStatusPending {
		t.Errorf("expected pending status, got %q", created.Status)
	}
	if created.EmailLower != "invitee@example.com" {
		t.Errorf("expected normalized email, got %q", created.EmailLower)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_DuplicateTokenForDeck(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deckID := primitive.NewObjectID()
	hash := invitetoken.Hash("same-token")

	if _, err := store.Create(ctx, models.Invite{
		DeckID:        deckID,
		RoleRequested: "viewer",
		TokenHash:     hash,
		ExpiresAt:     time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := store.Create(ctx, models.Invite{
		DeckID:        deckID,
		RoleRequested: "editor",
		TokenHash:     hash,
		ExpiresAt:     time.Now().Add(time.Hour),
	})
	if !errors.Is(err, invitestore.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	// Same hash on a different deck is fine.
	if _, err := store.Create(ctx, models.Invite{
		DeckID:        primitive.NewObjectID(),
		RoleRequested: "viewer",
		TokenHash:     hash,
		ExpiresAt:     time.Now().Add(time.Hour),
	}); err != nil {
		t.Errorf("expected create on another deck to succeed, got %v", err)
	}
}

func TestStore_GetByTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deckID := primitive.NewObjectID()
	hash := invitetoken.Hash("lookup-token")
	created, err := store.Create(ctx, models.Invite{
		DeckID:        deckID,
		RoleRequested: "editor",
		TokenHash:     hash,
		ExpiresAt:     time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByTokenHash(ctx, deckID, hash)
	if err != nil {
		t.Fatalf("GetByTokenHash failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected invite %s, got %s", created.ID.Hex(), got.ID.Hex())
	}

	// Same token against another deck is not found.
	_, err = store.GetByTokenHash(ctx, primitive.NewObjectID(), hash)
	if !errors.Is(err, invitestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound for wrong deck, got %v", err)
	}

	_, err = store.GetByTokenHash(ctx, deckID, invitetoken.Hash("other-token"))
	if !errors.Is(err, invitestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown token, got %v", err)
	}
}

func TestStore_MarkAccepted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Invite{
		DeckID:        primitive.NewObjectID(),
		RoleRequested: "viewer",
		TokenHash:     invitetoken.Hash("accept-me"),
		ExpiresAt:     time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.MarkAccepted(ctx, created.ID); err != nil {
		t.Fatalf("MarkAccepted failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.InviteStatusAccepted {
		t.Errorf("expected accepted status, got %q", got.Status)
	}
	if !got.UpdatedAt.After(created.UpdatedAt) {
		t.Error("expected updated_at to advance")
	}

	if err := store.MarkAccepted(ctx, primitive.NewObjectID()); !errors.Is(err, invitestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
