package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aquasafi/aquasafi-backend/pkg/enums"
)

// Alert is an operational incident tied to the
// active -> acknowledged -> resolved lifecycle.
type Alert struct {
	ID             uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Type           string              `gorm:"column:type;not null"`
	Title          string              `gorm:"column:title;not null"`
	Description    *string             `gorm:"column:description;type:text"`
	WaterPointID   *uuid.UUID          `gorm:"column:water_point_id;type:uuid;index"`
	Priority       enums.AlertPriority `gorm:"column:priority;type:alert_priority;not null;default:'medium'"`
	Status         enums.AlertStatus   `gorm:"column:status;type:alert_status;not null;default:'active'"`
	AcknowledgedBy *uuid.UUID          `gorm:"column:acknowledged_by;type:uuid"`
	AcknowledgedAt *time.Time          `gorm:"column:acknowledged_at"`
	ResolvedAt     *time.Time          `gorm:"column:resolved_at"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
