package entity

import (
	"github.com/google/uuid"
)

// ServiceBooking is a contact request sent to a service listing.
type ServiceBooking struct {
	BaseSimple
	ServiceID   uuid.UUID     `db:"service_id"`
	UserID      *uuid.UUID    `db:"user_id"`
	Message     string        `db:"message"`
	ContactInfo string        `db:"contact_info"`
	Status      BookingStatus `db:"status"`
}

type ServiceBookingWithService struct {
	ServiceBooking
	Service *Service
}
