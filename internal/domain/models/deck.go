// internal/domain/models/deck.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Deck is a shared collection of cards with role-based membership.
//
// Membership lives on the deck document itself: Roles maps a user ID (hex)
// to the role that user holds on this deck. CollaboratorIDs is a denormalized
// set used for "shared with me" queries and must always equal
// keys(Roles) minus OwnerID. Every write path that touches Roles is
// responsible for keeping the two in sync.
type Deck struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"title_ci"` // lowercase, diacritics-stripped

	// OwnerID is the user ID (hex) of the sole owner. Immutable after creation.
	// Roles[OwnerID] is always "owner".
	OwnerID string `bson:"owner_id" json:"owner_id"`

	// Roles maps user ID (hex) to "owner" | "editor" | "viewer".
	Roles map[string]string `bson:"roles" json:"roles"`

	// CollaboratorIDs holds every user in Roles except the owner.
	CollaboratorIDs []string `bson:"collaborator_ids" json:"collaborator_ids"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// RoleOf returns the role the given user holds on the deck, or "" if none.
func (d Deck) RoleOf(userID string) string {
	return d.Roles[userID]
}

// IsOwner reports whether the given user is the deck's owner.
func (d Deck) IsOwner(userID string) bool {
	return userID != "" && userID == d.OwnerID
}

// IsCollaborator reports whether the given user holds a non-owner role.
func (d Deck) IsCollaborator(userID string) bool {
	for _, id := range d.CollaboratorIDs {
		if id == userID {
			return true
		}
	}
	return false
}
