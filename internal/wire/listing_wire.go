package wire

import (
	"community-hub/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireListing(r chi.Router, listingHandler *adaptor.ListingHandler, g guards) {
	r.Route("/api/services", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/", listingHandler.List)
		r.Get("/categories", listingHandler.Categories)
		r.Get("/approved", listingHandler.ListApproved)
		r.Get("/count", listingHandler.Count)
		r.Get("/{id}", listingHandler.GetByID)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(g.auth)

			r.Post("/", listingHandler.Create)
			r.Get("/mine", listingHandler.ListMine)
			r.Put("/{id}", listingHandler.Update)
			r.Delete("/{id}", listingHandler.Delete)

			// Admin only
			r.With(g.admin).Get("/all", listingHandler.ListAll)
			r.With(g.admin).Get("/pending", listingHandler.ListPending)
			r.With(g.admin).Patch("/{id}/status", listingHandler.SetStatus)
		})
	})
}
