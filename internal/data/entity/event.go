package entity

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	Base
	Title    string         `db:"title"`
	Date     time.Time      `db:"date"`
	Location string         `db:"location"`
	Price    float64        `db:"price"`
	ImageURL string         `db:"image_url"`
	OwnerID  *uuid.UUID     `db:"owner_id"`
	Status   ApprovalStatus `db:"status"`
}

// EventWithOwner is an event joined with its owner's public identity.
type EventWithOwner struct {
	Event
	Owner *User
}
