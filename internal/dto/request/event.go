package request

// EventRequest is decoded from the multipart create form. Date is parsed by
// the service so that several input layouts are accepted.
type EventRequest struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Date     string   `json:"date" validate:"required"`
	Location string   `json:"location" validate:"required,max=200"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0,lte=99999999.99"`
}

type EventUpdateRequest struct {
	Title    *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Date     *string  `json:"date,omitempty" validate:"omitempty,min=1"`
	Location *string  `json:"location,omitempty" validate:"omitempty,min=1,max=200"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0,lte=99999999.99"`
}

// StatusRequest is the body of an approval decision.
type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved declined"`
}
