package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WaterUsage records metered consumption drawn from a water point,
// optionally billed to a user.
type WaterUsage struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	WaterPointID uuid.UUID        `gorm:"column:water_point_id;type:uuid;not null;index"`
	UserID       *uuid.UUID       `gorm:"column:user_id;type:uuid;index"`
	Amount       float64          `gorm:"column:amount;not null"`
	Cost         *decimal.Decimal `gorm:"column:cost;type:numeric(12,2)"`
	UsageType    *string          `gorm:"column:usage_type"`
	MeterReading *float64         `gorm:"column:meter_reading"`
	RecordedAt   time.Time        `gorm:"column:recorded_at;not null"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
}
