package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aquasafi/aquasafi-backend/pkg/enums"
)

// User represents the canonical identity entity. Users are never
// physically deleted; deactivation flips is_active.
type User struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email            string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash     string         `gorm:"column:password_hash;not null"`
	FullName         string         `gorm:"column:full_name;not null"`
	PhoneNumber      *string        `gorm:"column:phone_number"`
	Location         *string        `gorm:"column:location"`
	Community        *string        `gorm:"column:community"`
	Role             enums.UserRole `gorm:"column:role;type:user_role;not null;default:'community_member'"`
	Organization     *string        `gorm:"column:organization"`
	NationalID       *string        `gorm:"column:national_id;uniqueIndex"`
	EmergencyContact *string        `gorm:"column:emergency_contact"`
	EmergencyPhone   *string        `gorm:"column:emergency_phone"`
	IsActive         bool           `gorm:"column:is_active;not null;default:true"`
	IsVerified       bool           `gorm:"column:is_verified;not null;default:false"`
	LastLoginAt      *time.Time     `gorm:"column:last_login_at"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
