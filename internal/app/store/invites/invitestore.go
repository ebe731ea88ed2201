// internal/app/store/invites/invitestore.go
package invitestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/deckhub/internal/app/system/normalize"
	"github.com/dalemusser/deckhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound  = errors.New("invite not found")
	ErrDuplicate = errors.New("an invite with this token already exists for the deck")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("invites")}
}

// Create inserts a new invite. Status defaults to pending.
func (s *Store) Create(ctx context.Context, inv models.Invite) (models.Invite, error) {
	now := time.Now().UTC()
	inv.ID = primitive.NewObjectID()
	inv.EmailLower = normalize.Email(inv.EmailLower)
	if inv.Status == "" {
		inv.Status = models.InviteStatusPending
	}
	inv.CreatedAt = now
	inv.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, inv)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Invite{}, ErrDuplicate
		}
		return models.Invite{}, err
	}
	return inv, nil
}

// GetByTokenHash retrieves the invite for (deckID, tokenHash). Scoping the
// lookup to the deck means a token presented against the wrong deck is
// simply not found.
func (s *Store) GetByTokenHash(ctx context.Context, deckID primitive.ObjectID, tokenHash string) (models.Invite, error) {
	var inv models.Invite
	err := s.c.FindOne(ctx, bson.M{"deck_id": deckID, "token_hash": tokenHash}).Decode(&inv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Invite{}, ErrNotFound
		}
		return models.Invite{}, err
	}
	return inv, nil
}

// GetByID retrieves an invite by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Invite, error) {
	var inv models.Invite
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&inv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Invite{}, ErrNotFound
		}
		return models.Invite{}, err
	}
	return inv, nil
}

// MarkAccepted records that the invite was redeemed. Invites are never
// deleted, so accepted invites stay behind as an audit trail.
func (s *Store) MarkAccepted(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{
		"status":     models.InviteStatusAccepted,
		"updated_at": time.Now().UTC(),
	}}
	res, err := s.c.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureIndexes creates indexes for the invites collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Acceptance lookup; unique so a token hash maps to at most one
		// invite per deck.
		{
			Keys:    bson.D{{Key: "deck_id", Value: 1}, {Key: "token_hash", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_invite_deck_token"),
		},
		// Invitee's pending-invite listing
		{
			Keys:    bson.D{{Key: "email_lower", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_invite_email_status"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
