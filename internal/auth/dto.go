package auth

import (
	"github.com/aquasafi/aquasafi-backend/internal/users"
)

// RegisterRequest contains the payload for public self-registration.
type RegisterRequest struct {
	FullName         string  `json:"full_name" validate:"required"`
	Email            string  `json:"email" validate:"required,email"`
	Password         string  `json:"password" validate:"required,min=8"`
	PhoneNumber      *string `json:"phone_number,omitempty"`
	Location         *string `json:"location,omitempty"`
	Community        *string `json:"community,omitempty"`
	Organization     *string `json:"organization,omitempty"`
	NationalID       *string `json:"national_id,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
	EmergencyPhone   *string `json:"emergency_phone,omitempty"`
}

// LoginRequest is the credential pair for authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest rotates an access/refresh pair.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ChangePasswordRequest swaps the caller's credential.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// AuthResponse carries a token pair plus the authenticated profile.
type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user,omitempty"`
}
