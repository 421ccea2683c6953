package request

type CreateBookingRequest struct {
	EventID string `json:"eventId" validate:"required"`
}

type CreateServiceBookingRequest struct {
	ServiceID   string `json:"serviceId" validate:"required"`
	Message     string `json:"message" validate:"required,max=2000"`
	ContactInfo string `json:"contactInfo" validate:"required,max=200"`
}
