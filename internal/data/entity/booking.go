package entity

import (
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
)

// Booking is an RSVP of a user to an event. Cancelling deletes it.
type Booking struct {
	BaseSimple
	UserID  uuid.UUID     `db:"user_id"`
	EventID uuid.UUID     `db:"event_id"`
	Status  BookingStatus `db:"status"`
}

type BookingWithEvent struct {
	Booking
	Event *Event
}
