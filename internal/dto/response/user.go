package response

import (
	"time"

	"community-hub/internal/data/entity"
)

type UserResponse struct {
	ID        string          `json:"_id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      entity.UserRole `json:"role"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// OwnerResponse is the public identity attached to listings.
type OwnerResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func OwnerToResponse(owner *entity.User) *OwnerResponse {
	if owner == nil {
		return nil
	}
	return &OwnerResponse{
		ID:    owner.ID.String(),
		Name:  owner.Name,
		Email: owner.Email,
	}
}
