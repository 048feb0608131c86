package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemSetting is a key/value configuration row editable by admins.
type SystemSetting struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Key         string     `gorm:"column:key;not null;uniqueIndex"`
	Value       *string    `gorm:"column:value;type:text"`
	Description *string    `gorm:"column:description;type:text"`
	Category    *string    `gorm:"column:category;index"`
	UpdatedBy   *uuid.UUID `gorm:"column:updated_by;type:uuid"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
