// internal/app/features/auditlog/routes.go
package auditlog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the sharing history, mounted under
// /decks/{deckID}/audit.
func Routes(h *Handler, requireSignedIn func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.With(requireSignedIn).Get("/", h.ServeList)
	return r
}
