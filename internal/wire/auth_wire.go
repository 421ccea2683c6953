package wire

import (
	"community-hub/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, g guards) {
	r.Route("/api/auth", func(r chi.Router) {
		// Public, rate limited
		r.With(g.rateLimit).Post("/register", authHandler.Register)
		r.With(g.rateLimit).Post("/login", authHandler.Login)

		// Protected
		r.With(g.auth).Get("/profile", authHandler.Profile)
	})
}
