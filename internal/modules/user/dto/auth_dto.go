package dto

import (
	"io"

	"anoa.com/desainhub/internal/entity"
)

// AvatarFile merepresentasikan file avatar yang diupload user.
type AvatarFile struct {
	Reader   io.Reader
	FileName string
}

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=klien desainer"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileInput struct {
	FullName     *string `json:"full_name"`
	Bio          *string `json:"bio"`
	PortfolioURL *string `json:"portfolio_url"`
	HourlyRate   *int64  `json:"hourly_rate"`
}

type AuthResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int64           `json:"expires_in"`
	User        *entity.User    `json:"user"`
	Role        *entity.Role    `json:"role"`
	Profile     *entity.Profile `json:"profile"`
}
