package dto

import (
	"time"

	"github.com/herafna/marketplace/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	City        string `json:"city"`
	AccountType string `json:"account_type"`
}

// LoginRequest payload for sign-in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest payload for starting a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest payload for redeeming a reset token.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProfileResponse is the outward shape of a user profile.
type ProfileResponse struct {
	UID         string `json:"uid"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	City        string `json:"city"`
	AccountType string `json:"account_type"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Role        string `json:"role"`
	Status      string `json:"status"`
}

// NewProfileResponse maps a domain profile to its response shape.
func NewProfileResponse(p *domain.UserProfile) ProfileResponse {
	return ProfileResponse{
		UID:         p.UID,
		FullName:    p.FullName,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		City:        p.City,
		AccountType: string(p.AccountType),
		AvatarURL:   p.AvatarURL,
		Role:        string(p.Role),
		Status:      string(p.Status),
	}
}
