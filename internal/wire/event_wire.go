package wire

import (
	"community-hub/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireEvent(r chi.Router, eventHandler *adaptor.EventHandler, g guards) {
	r.Route("/api/events", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/", eventHandler.List)
		r.Get("/approved", eventHandler.ListApproved)
		r.Get("/count", eventHandler.Count)
		r.Get("/{id}", eventHandler.GetByID)

		// Anonymous creation is allowed
		r.With(g.optional).Post("/", eventHandler.Create)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(g.auth)

			r.Get("/mine", eventHandler.ListMine)
			r.Put("/{id}", eventHandler.Update)
			r.Delete("/{id}", eventHandler.Delete)

			// Admin only
			r.With(g.admin).Get("/all", eventHandler.ListAll)
			r.With(g.admin).Get("/pending", eventHandler.ListPending)
			r.With(g.admin).Patch("/{id}/status", eventHandler.SetStatus)
		})
	})
}
