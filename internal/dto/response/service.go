package response

import (
	"time"

	"community-hub/internal/data/entity"

	"github.com/google/uuid"
)

type ServiceResponse struct {
	ID          string                 `json:"_id"`
	Title       string                 `json:"title"`
	Category    entity.ServiceCategory `json:"category"`
	Description string                 `json:"description"`
	Contact     string                 `json:"contact"`
	Price       float64                `json:"price"`
	Image       string                 `json:"image"`
	OwnerID     *string                `json:"ownerId"`
	Owner       *OwnerResponse         `json:"owner,omitempty"`
	Status      entity.ApprovalStatus  `json:"status"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

type CategoriesResponse struct {
	Categories []entity.ServiceCategory `json:"categories"`
}

func ServiceToResponse(service *entity.Service, owner *entity.User) ServiceResponse {
	return ServiceResponse{
		ID:          service.ID.String(),
		Title:       service.Title,
		Category:    service.Category,
		Description: service.Description,
		Contact:     service.Contact,
		Price:       service.Price,
		Image:       service.ImageURL,
		OwnerID:     uuidString(service.OwnerID),
		Owner:       OwnerToResponse(owner),
		Status:      service.Status,
		CreatedAt:   service.CreatedAt,
		UpdatedAt:   service.UpdatedAt,
	}
}

func ServicesToResponse(services []*entity.ServiceWithOwner) []ServiceResponse {
	result := make([]ServiceResponse, len(services))
	for i, service := range services {
		result[i] = ServiceToResponse(&service.Service, service.Owner)
	}
	return result
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
