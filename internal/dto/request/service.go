package request

type ServiceRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Category    string   `json:"category" validate:"required,service_category"`
	Description string   `json:"description" validate:"required"`
	Contact     string   `json:"contact" validate:"required,max=200"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0,lte=99999999.99"`
}

type ServiceUpdateRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,service_category"`
	Description *string  `json:"description,omitempty" validate:"omitempty,min=1"`
	Contact     *string  `json:"contact,omitempty" validate:"omitempty,min=1,max=200"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0,lte=99999999.99"`
}
