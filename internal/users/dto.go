package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID               uuid.UUID      `json:"id"`
	Email            string         `json:"email"`
	FullName         string         `json:"full_name"`
	PhoneNumber      *string        `json:"phone_number,omitempty"`
	Location         *string        `json:"location,omitempty"`
	Community        *string        `json:"community,omitempty"`
	Role             enums.UserRole `json:"role"`
	Organization     *string        `json:"organization,omitempty"`
	NationalID       *string        `json:"national_id,omitempty"`
	EmergencyContact *string        `json:"emergency_contact,omitempty"`
	EmergencyPhone   *string        `json:"emergency_phone,omitempty"`
	IsActive         bool           `json:"is_active"`
	IsVerified       bool           `json:"is_verified"`
	LastLoginAt      *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email            string
	PasswordHash     string
	FullName         string
	PhoneNumber      *string
	Location         *string
	Community        *string
	Role             enums.UserRole
	Organization     *string
	NationalID       *string
	EmergencyContact *string
	EmergencyPhone   *string
	IsActive         *bool
}

// UpdateProfileDTO carries the self-service editable fields. Nil means
// leave the column untouched.
type UpdateProfileDTO struct {
	FullName         *string `json:"full_name,omitempty"`
	PhoneNumber      *string `json:"phone_number,omitempty"`
	Location         *string `json:"location,omitempty"`
	Community        *string `json:"community,omitempty"`
	Organization     *string `json:"organization,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
	EmergencyPhone   *string `json:"emergency_phone,omitempty"`
}

// ListFilter narrows the admin/supervisor user listing.
type ListFilter struct {
	Role     *enums.UserRole
	IsActive *bool
	Search   string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:               u.ID,
		Email:            u.Email,
		FullName:         u.FullName,
		PhoneNumber:      u.PhoneNumber,
		Location:         u.Location,
		Community:        u.Community,
		Role:             u.Role,
		Organization:     u.Organization,
		NationalID:       u.NationalID,
		EmergencyContact: u.EmergencyContact,
		EmergencyPhone:   u.EmergencyPhone,
		IsActive:         u.IsActive,
		IsVerified:       u.IsVerified,
		LastLoginAt:      u.LastLoginAt,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	role := c.Role
	if role == "" {
		role = enums.UserRoleCommunityMember
	}

	return &models.User{
		Email:            c.Email,
		PasswordHash:     c.PasswordHash,
		FullName:         c.FullName,
		PhoneNumber:      c.PhoneNumber,
		Location:         c.Location,
		Community:        c.Community,
		Role:             role,
		Organization:     c.Organization,
		NationalID:       c.NationalID,
		EmergencyContact: c.EmergencyContact,
		EmergencyPhone:   c.EmergencyPhone,
		IsActive:         isActive,
	}
}
