package wire

import (
	"community-hub/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	serviceBookingHandler *adaptor.ServiceBookingHandler,
	g guards,
) {
	// All booking routes need authentication
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(g.auth)

		r.Post("/", bookingHandler.Create)
		r.Get("/", bookingHandler.ListMine)
		r.Delete("/{id}", bookingHandler.Cancel)
	})

	r.Route("/api/servicebookings", func(r chi.Router) {
		r.Use(g.auth)

		r.Post("/", serviceBookingHandler.Create)
		r.Get("/", serviceBookingHandler.List)
		r.Delete("/{id}", serviceBookingHandler.Cancel)
	})
}
