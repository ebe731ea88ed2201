// internal/app/features/invites/routes.go
package invites

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for invite endpoints, mounted under
// /decks/{deckID}/invites. requireSignedIn guards the accept endpoint;
// preview is public so an invitee can see the offer before logging in.
func Routes(h *Handler, requireSignedIn func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{token}", h.Preview)
	r.With(requireSignedIn).Post("/accept", h.Accept)
	return r
}
