package users

import (
	"time"

	"kit-inventory/internal/domain/users"
)

type MeResponse struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	AuthProvider string    `json:"auth_provider"`
	Email        *string   `json:"email"`
	FullName     *string   `json:"full_name"`
	AvatarURL    *string   `json:"avatar_url"`
	Bio          *string   `json:"bio"`
	HasPassword  bool      `json:"has_password"`
	CreatedAt    time.Time `json:"created_at"`
}

func buildMeResponse(u users.User) MeResponse {
	return MeResponse{
		ID:           u.ID,
		Username:     u.Username,
		Role:         u.Role,
		AuthProvider: u.AuthProvider,
		Email:        u.Email,
		FullName:     u.FullName,
		AvatarURL:    u.AvatarURL,
		Bio:          u.Bio,
		HasPassword:  u.PasswordHash != nil && *u.PasswordHash != "",
		CreatedAt:    u.CreatedAt,
	}
}
