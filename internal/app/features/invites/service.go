// internal/app/features/invites/service.go
package invites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/deckhub/internal/app/policy/rolepolicy"
	deckstore "github.com/dalemusser/deckhub/internal/app/store/decks"
	invitestore "github.com/dalemusser/deckhub/internal/app/store/invites"
	"github.com/dalemusser/deckhub/internal/app/system/txn"
	"github.com/dalemusser/deckhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Stable error codes surfaced to API clients.
const (
	CodeInviteNotFound = "invite/not-found"
	CodeInviteExpired  = "invite/expired"
	CodeInviteRevoked  = "invite/revoked"
)

// DomainError is an acceptance rejection the caller can act on. Anything
// else that goes wrong is an internal error and stays opaque to clients.
type DomainError struct {
	Code string
}

func (e *DomainError) Error() string { return e.Code }

var (
	ErrInviteNotFound = &DomainError{Code: CodeInviteNotFound}
	ErrInviteExpired  = &DomainError{Code: CodeInviteExpired}
	ErrInviteRevoked  = &DomainError{Code: CodeInviteRevoked}
)

// AsDomainError unwraps err to a *DomainError if it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// DeckStore is the slice of the deck store the service needs.
type DeckStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Deck, error)
	GrantRole(ctx context.Context, deckID primitive.ObjectID, userID, role string) error
}

// InviteStore is the slice of the invite store the service needs.
type InviteStore interface {
	GetByTokenHash(ctx context.Context, deckID primitive.ObjectID, tokenHash string) (models.Invite, error)
	MarkAccepted(ctx context.Context, id primitive.ObjectID) error
}

// Service implements invite acceptance.
type Service struct {
	decks   DeckStore
	invites InviteStore
	runner  txn.Runner
	now     func() time.Time
	log     *zap.Logger
}

// NewService constructs the acceptance service. All writes go through
// runner so the invite check and the deck role grant commit atomically.
func NewService(decks DeckStore, invites InviteStore, runner txn.Runner, logger *zap.Logger) *Service {
	return &Service{
		decks:   decks,
		invites: invites,
		runner:  runner,
		now:     time.Now,
		log:     logger,
	}
}

// AcceptResult describes the outcome of a successful acceptance.
type AcceptResult struct {
	DeckID string `json:"deck_id"`
	// Role is the caller's effective role on the deck after acceptance.
	// On the already-member path this is the existing (equal or higher)
	// role, not the invite's.
	Role          string `json:"role"`
	AlreadyMember bool   `json:"already_member"`
}

// Accept redeems the invite identified by (deckID, tokenHash) for callerID.
//
// Rejections are checked in a fixed order: unknown token, then revoked,
// then expired, so a revoked invite that has also lapsed reports revoked.
// If the caller already holds a role that covers the invite's, nothing is
// written and the result says so; accepting an invite never downgrades.
// Otherwise the role grant and the invite status flip commit as one
// transaction, and the callback may re-run on transient conflicts, which is
// safe because every step is idempotent.
func (s *Service) Accept(ctx context.Context, deckID primitive.ObjectID, tokenHash, callerID string) (AcceptResult, error) {
	var res AcceptResult

	err := s.runner.Run(ctx, func(ctx context.Context) error {
		inv, err := s.loadValidInvite(ctx, deckID, tokenHash)
		if err != nil {
			return err
		}

		deck, err := s.decks.GetByID(ctx, inv.DeckID)
		if err != nil {
			// A valid invite pointing at a missing deck is a data
			// integrity problem, not a client mistake.
			return fmt.Errorf("load deck %s for invite %s: %w", inv.DeckID.Hex(), inv.ID.Hex(), err)
		}

		existing := deck.RoleOf(callerID)
		if rolepolicy.Subsumes(existing, inv.RoleRequested) {
			res = AcceptResult{
				DeckID:        deck.ID.Hex(),
				Role:          existing,
				AlreadyMember: true,
			}
			return nil
		}

		if err := s.decks.GrantRole(ctx, deck.ID, callerID, inv.RoleRequested); err != nil {
			return fmt.Errorf("grant %s on deck %s: %w", inv.RoleRequested, deck.ID.Hex(), err)
		}
		if err := s.invites.MarkAccepted(ctx, inv.ID); err != nil {
			return fmt.Errorf("mark invite %s accepted: %w", inv.ID.Hex(), err)
		}

		res = AcceptResult{
			DeckID: deck.ID.Hex(),
			Role:   inv.RoleRequested,
		}
		return nil
	})
	if err != nil {
		return AcceptResult{}, err
	}

	s.log.Info("invite accepted",
		zap.String("deck_id", res.DeckID),
		zap.String("user_id", callerID),
		zap.String("role", res.Role),
		zap.Bool("already_member", res.AlreadyMember))
	return res, nil
}

// PreviewResult is what an invitee sees before deciding to accept.
type PreviewResult struct {
	DeckID    string    `json:"deck_id"`
	DeckTitle string    `json:"deck_title"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Preview validates the invite without redeeming it, so a client can show
// what the invite grants. Rejection rules match Accept exactly.
func (s *Service) Preview(ctx context.Context, deckID primitive.ObjectID, tokenHash string) (PreviewResult, error) {
	inv, err := s.loadValidInvite(ctx, deckID, tokenHash)
	if err != nil {
		return PreviewResult{}, err
	}

	deck, err := s.decks.GetByID(ctx, inv.DeckID)
	if err != nil {
		return PreviewResult{}, fmt.Errorf("load deck %s for invite %s: %w", inv.DeckID.Hex(), inv.ID.Hex(), err)
	}

	return PreviewResult{
		DeckID:    deck.ID.Hex(),
		DeckTitle: deck.Title,
		Role:      inv.RoleRequested,
		ExpiresAt: inv.ExpiresAt,
	}, nil
}

// loadValidInvite fetches the invite and applies the rejection rules in
// order: not found, revoked, expired. An already-accepted invite passes;
// re-presenting it is how idempotent acceptance works.
func (s *Service) loadValidInvite(ctx context.Context, deckID primitive.ObjectID, tokenHash string) (models.Invite, error) {
	inv, err := s.invites.GetByTokenHash(ctx, deckID, tokenHash)
	if err != nil {
		if errors.Is(err, invitestore.ErrNotFound) {
			return models.Invite{}, ErrInviteNotFound
		}
		return models.Invite{}, fmt.Errorf("lookup invite: %w", err)
	}
	if inv.IsRevoked() {
		return models.Invite{}, ErrInviteRevoked
	}
	if inv.IsExpired(s.now()) {
		return models.Invite{}, ErrInviteExpired
	}
	return inv, nil
}

// interface conformance
var (
	_ DeckStore   = (*deckstore.Store)(nil)
	_ InviteStore = (*invitestore.Store)(nil)
)
