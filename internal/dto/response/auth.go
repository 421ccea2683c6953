package response

import (
	"community-hub/internal/data/entity"
)

// AuthResponse is returned by register.
type AuthResponse struct {
	ID    string          `json:"_id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  entity.UserRole `json:"role"`
	Token string          `json:"token"`
}

// LoginResponse nests the identity under user, as clients expect.
type LoginResponse struct {
	Token string       `json:"token"`
	User  AuthResponse `json:"user"`
}

func AuthToResponse(user *entity.User, token string) AuthResponse {
	return AuthResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	}
}
