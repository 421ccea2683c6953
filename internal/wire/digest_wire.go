package wire

import (
	"community-hub/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireDigest(r chi.Router, digestHandler *adaptor.DigestHandler, g guards) {
	r.With(g.auth).Get("/api/daily-digest", digestHandler.Get)
}
