package wire

import (
	"community-hub/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, g guards) {
	r.Route("/api/users", func(r chi.Router) {
		r.Get("/count", userHandler.Count)

		// Admin only
		r.With(g.auth, g.admin).Get("/", userHandler.GetAllUsers)
	})
}
