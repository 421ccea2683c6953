package response

import (
	"time"

	"community-hub/internal/data/entity"
)

type BookingResponse struct {
	ID        string               `json:"_id"`
	UserID    string               `json:"userId"`
	EventID   string               `json:"eventId"`
	Event     *EventResponse       `json:"event,omitempty"`
	Status    entity.BookingStatus `json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
}

type ServiceBookingResponse struct {
	ID          string               `json:"_id"`
	ServiceID   string               `json:"serviceId"`
	Service     *ServiceResponse     `json:"service,omitempty"`
	UserID      *string              `json:"userId"`
	Message     string               `json:"message"`
	ContactInfo string               `json:"contactInfo"`
	Status      entity.BookingStatus `json:"status"`
	CreatedAt   time.Time            `json:"createdAt"`
}

func BookingToResponse(booking *entity.Booking, event *entity.Event) BookingResponse {
	resp := BookingResponse{
		ID:        booking.ID.String(),
		UserID:    booking.UserID.String(),
		EventID:   booking.EventID.String(),
		Status:    booking.Status,
		CreatedAt: booking.CreatedAt,
	}
	if event != nil {
		eventResp := EventToResponse(event, nil)
		resp.Event = &eventResp
	}
	return resp
}

func ServiceBookingToResponse(booking *entity.ServiceBooking, service *entity.Service) ServiceBookingResponse {
	resp := ServiceBookingResponse{
		ID:          booking.ID.String(),
		ServiceID:   booking.ServiceID.String(),
		UserID:      uuidString(booking.UserID),
		Message:     booking.Message,
		ContactInfo: booking.ContactInfo,
		Status:      booking.Status,
		CreatedAt:   booking.CreatedAt,
	}
	if service != nil {
		serviceResp := ServiceToResponse(service, nil)
		resp.Service = &serviceResp
	}
	return resp
}
