package response

import (
	"time"

	"community-hub/internal/data/entity"
)

type EventResponse struct {
	ID        string                `json:"_id"`
	Title     string                `json:"title"`
	Date      time.Time             `json:"date"`
	Location  string                `json:"location"`
	Price     float64               `json:"price"`
	Image     string                `json:"image"`
	OwnerID   *string               `json:"ownerId"`
	Owner     *OwnerResponse        `json:"owner,omitempty"`
	Status    entity.ApprovalStatus `json:"status"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

func EventToResponse(event *entity.Event, owner *entity.User) EventResponse {
	return EventResponse{
		ID:        event.ID.String(),
		Title:     event.Title,
		Date:      event.Date,
		Location:  event.Location,
		Price:     event.Price,
		Image:     event.ImageURL,
		OwnerID:   uuidString(event.OwnerID),
		Owner:     OwnerToResponse(owner),
		Status:    event.Status,
		CreatedAt: event.CreatedAt,
		UpdatedAt: event.UpdatedAt,
	}
}

func EventsToResponse(events []*entity.EventWithOwner) []EventResponse {
	result := make([]EventResponse, len(events))
	for i, event := range events {
		result[i] = EventToResponse(&event.Event, event.Owner)
	}
	return result
}
