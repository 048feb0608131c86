package usage

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
)

// UsageDTO is the transport shape for a consumption record.
type UsageDTO struct {
	ID           uuid.UUID        `json:"id"`
	WaterPointID uuid.UUID        `json:"water_point_id"`
	UserID       *uuid.UUID       `json:"user_id,omitempty"`
	Amount       float64          `json:"amount"`
	Cost         *decimal.Decimal `json:"cost,omitempty"`
	UsageType    *string          `json:"usage_type,omitempty"`
	MeterReading *float64         `json:"meter_reading,omitempty"`
	RecordedAt   time.Time        `json:"recorded_at"`
	CreatedAt    time.Time        `json:"created_at"`
}

// RecordUsageDTO carries a new consumption record.
type RecordUsageDTO struct {
	WaterPointID uuid.UUID        `json:"water_point_id" validate:"required"`
	UserID       *uuid.UUID       `json:"user_id,omitempty"`
	Amount       float64          `json:"amount" validate:"required,gt=0"`
	Cost         *decimal.Decimal `json:"cost,omitempty"`
	UsageType    *string          `json:"usage_type,omitempty"`
	MeterReading *float64         `json:"meter_reading,omitempty" validate:"omitempty,gte=0"`
	RecordedAt   *time.Time       `json:"recorded_at,omitempty"`
}

// ListFilter narrows usage listings.
type ListFilter struct {
	WaterPointID *uuid.UUID
	UserID       *uuid.UUID
	UsageType    string
	From         *time.Time
	To           *time.Time
}

// FromModel converts a persistence row into the transport shape.
func FromModel(u *models.WaterUsage) *UsageDTO {
	if u == nil {
		return nil
	}
	return &UsageDTO{
		ID:           u.ID,
		WaterPointID: u.WaterPointID,
		UserID:       u.UserID,
		Amount:       u.Amount,
		Cost:         u.Cost,
		UsageType:    u.UsageType,
		MeterReading: u.MeterReading,
		RecordedAt:   u.RecordedAt,
		CreatedAt:    u.CreatedAt,
	}
}

// FromModels maps a page of rows.
func FromModels(rows []models.WaterUsage) []UsageDTO {
	out := make([]UsageDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
