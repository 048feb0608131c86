package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aquasafi/aquasafi-backend/pkg/enums"
)

// MaintenanceTask is a scheduled or completed repair job against a
// water point, optionally assigned to a technician.
type MaintenanceTask struct {
	ID                uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	WaterPointID      uuid.UUID          `gorm:"column:water_point_id;type:uuid;not null;index"`
	TechnicianID      *uuid.UUID         `gorm:"column:technician_id;type:uuid;index"`
	Title             string             `gorm:"column:title;not null"`
	Description       *string            `gorm:"column:description;type:text"`
	Priority          enums.TaskPriority `gorm:"column:priority;type:task_priority;not null;default:'medium'"`
	Status            enums.TaskStatus   `gorm:"column:status;type:task_status;not null;default:'pending'"`
	ScheduledDate     *time.Time         `gorm:"column:scheduled_date"`
	CompletedDate     *time.Time         `gorm:"column:completed_date"`
	EstimatedDuration *int               `gorm:"column:estimated_duration"`
	ActualDuration    *int               `gorm:"column:actual_duration"`
	Cost              *decimal.Decimal   `gorm:"column:cost;type:numeric(12,2)"`
	PartsUsed         *string            `gorm:"column:parts_used;type:text"`
	Notes             *string            `gorm:"column:notes;type:text"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
