// internal/app/store/decks/deckstore.go
package deckstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/deckhub/internal/app/policy/rolepolicy"
	"github.com/dalemusser/deckhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("deck not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("decks")}
}

// Create inserts a new deck owned by ownerID. The owner's role entry and an
// empty collaborator set are initialized here so the membership invariant
// holds from the first write.
func (s *Store) Create(ctx context.Context, deck models.Deck) (models.Deck, error) {
	now := time.Now().UTC()
	deck.ID = primitive.NewObjectID()
	deck.TitleCI = text.Fold(deck.Title)
	if deck.Roles == nil {
		deck.Roles = map[string]string{}
	}
	deck.Roles[deck.OwnerID] = rolepolicy.RoleOwner
	if deck.CollaboratorIDs == nil {
		deck.CollaboratorIDs = []string{}
	}
	deck.CreatedAt = now
	deck.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, deck)
	if err != nil {
		return models.Deck{}, err
	}
	return deck, nil
}

// GetByID retrieves a deck by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Deck, error) {
	var deck models.Deck
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&deck)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Deck{}, ErrNotFound
		}
		return models.Deck{}, err
	}
	return deck, nil
}

// GrantRole sets userID's role on the deck and adds the user to the
// collaborator set, as a single update. The caller must not pass the deck's
// owner: the owner's role is immutable and owners never appear in
// collaborator_ids. $addToSet keeps the grant idempotent for users who
// already hold a role.
func (s *Store) GrantRole(ctx context.Context, deckID primitive.ObjectID, userID, role string) error {
	update := bson.M{
		"$set": bson.M{
			"roles." + userID: role,
			"updated_at":      time.Now().UTC(),
		},
		"$addToSet": bson.M{"collaborator_ids": userID},
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": deckID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RevokeRole removes userID's role and collaborator entry in a single update.
func (s *Store) RevokeRole(ctx context.Context, deckID primitive.ObjectID, userID string) error {
	update := bson.M{
		"$unset": bson.M{"roles." + userID: ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
		"$pull":  bson.M{"collaborator_ids": userID},
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": deckID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForUser returns every deck the user owns or collaborates on, newest
// first.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]models.Deck, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"owner_id": userID},
			{"collaborator_ids": userID},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var decks []models.Deck
	if err := cur.All(ctx, &decks); err != nil {
		return nil, err
	}
	return decks, nil
}

// Count returns the number of decks matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// Delete removes a deck by ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates indexes for the decks collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// "My decks" listing
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetName("idx_deck_owner"),
		},
		// "Shared with me" listing
		{
			Keys:    bson.D{{Key: "collaborator_ids", Value: 1}},
			Options: options.Index().SetName("idx_deck_collaborators"),
		},
		// Case-insensitive title sort
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}},
			Options: options.Index().SetName("idx_deck_title_ci"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
