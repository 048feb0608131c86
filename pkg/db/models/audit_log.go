package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only trail of mutating actions. Rows are never
// updated or deleted.
type AuditLog struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     *uuid.UUID      `gorm:"column:user_id;type:uuid;index"`
	Action     string          `gorm:"column:action;not null"`
	Resource   string          `gorm:"column:resource;not null;index"`
	ResourceID *string         `gorm:"column:resource_id"`
	Details    json.RawMessage `gorm:"column:details;type:jsonb"`
	IPAddress  *string         `gorm:"column:ip_address"`
	UserAgent  *string         `gorm:"column:user_agent"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
