// internal/app/features/auditlog/handler.go
package auditlog

import (
	"github.com/dalemusser/deckhub/internal/app/store/audit"
	deckstore "github.com/dalemusser/deckhub/internal/app/store/decks"
	"go.uber.org/zap"
)

// Handler serves the sharing-history endpoint for deck owners.
type Handler struct {
	Decks *deckstore.Store
	Audit *audit.Store
	Log   *zap.Logger
}

// NewHandler constructs an audit log Handler bound to the deck and audit
// stores.
func NewHandler(decks *deckstore.Store, auditStore *audit.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Decks: decks,
		Audit: auditStore,
		Log:   logger,
	}
}
