// internal/domain/models/invite.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invite statuses. Expiry is not a status: it is a read-time predicate on
// ExpiresAt, so an invite can be "pending" and expired at the same time.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusRevoked  = "revoked"
)

// Invite grants a role on a single deck to whoever presents the matching
// secret token. Only the SHA-256 hash of the token is stored; (deck_id,
// token_hash) is the unique lookup key. Invites are never deleted — accepted
// and revoked invites remain as an audit trail.
type Invite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DeckID    primitive.ObjectID `bson:"deck_id" json:"deck_id"`
	InviterID string             `bson:"inviter_id" json:"inviter_id"`

	// EmailLower is the normalized invitee email. Informational only:
	// acceptance authorizes by token possession, not by email.
	EmailLower string `bson:"email_lower" json:"email_lower"`

	// RoleRequested is "viewer" or "editor"; an invite never offers "owner".
	RoleRequested string `bson:"role_requested" json:"role_requested"`

	Status    string    `bson:"status" json:"status"`
	TokenHash string    `bson:"token_hash" json:"-"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsExpired reports whether the invite's expiry is in the past at now.
func (i Invite) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// IsRevoked reports whether the invite has been revoked.
func (i Invite) IsRevoked() bool {
	return i.Status == InviteStatusRevoked
}
