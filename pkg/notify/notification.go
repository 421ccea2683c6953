// Package notify publishes workflow notifications to the message broker.
package notify

import (
	"context"
	"time"
)

type Kind string

const (
	KindEventCreated          Kind = "event.created"
	KindEventStatusChanged    Kind = "event.status_changed"
	KindServiceCreated        Kind = "service.created"
	KindServiceStatusChanged  Kind = "service.status_changed"
	KindBookingCreated        Kind = "booking.created"
	KindBookingCancelled      Kind = "booking.cancelled"
	KindServiceBookingCreated Kind = "service_booking.created"
	KindServiceBookingDeleted Kind = "service_booking.cancelled"
)

// Notification is the message body placed on the queue.
type Notification struct {
	Kind       Kind      `json:"kind"`
	SubjectID  string    `json:"subjectId"`
	ActorID    string    `json:"actorId,omitempty"`
	Status     string    `json:"status,omitempty"`
	Title      string    `json:"title,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, n Notification) error
	Close() error
}

// NopPublisher drops every notification. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Notification) error { return nil }

func (NopPublisher) Close() error { return nil }
