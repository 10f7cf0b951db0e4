package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FullName    string  `json:"full_name"`
	Gender      *string `json:"gender,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	FullName          string     `json:"full_name"`
	Gender            *string    `json:"gender,omitempty"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty"`
	Role              string     `json:"role"`
	AuthProvider      string     `json:"auth_provider"`
	ProfilePictureURL *string    `json:"profile_picture_url,omitempty"`
	GoogleLinked      bool       `json:"google_linked"`
	AppleLinked       bool       `json:"apple_linked"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// SocialSignInRequest carries a provider identity token. FullName and Email
// are hints used only when the token itself lacks them.
type SocialSignInRequest struct {
	IdentityToken string `json:"identity_token"`
	FullName      string `json:"full_name,omitempty"`
	Email         string `json:"email,omitempty"`
}

type LinkSocialRequest struct {
	Provider      string `json:"provider"`
	IdentityToken string `json:"identity_token"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
