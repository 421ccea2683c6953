package adaptor

import (
	"community-hub/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth           *AuthHandler
	User           *UserHandler
	Event          *EventHandler
	Listing        *ListingHandler
	Booking        *BookingHandler
	ServiceBooking *ServiceBookingHandler
	Digest         *DigestHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:           NewAuthHandler(service.Auth, service.User, log),
		User:           NewUserHandler(service.User, log),
		Event:          NewEventHandler(service.Event, log),
		Listing:        NewListingHandler(service.Listing, log),
		Booking:        NewBookingHandler(service.Booking, log),
		ServiceBooking: NewServiceBookingHandler(service.Booking, log),
		Digest:         NewDigestHandler(service.Digest, log),
	}
}
