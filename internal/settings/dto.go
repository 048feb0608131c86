package settings

import (
	"time"

	"github.com/google/uuid"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
)

// SettingDTO is the transport shape for a configuration entry.
type SettingDTO struct {
	ID          uuid.UUID  `json:"id"`
	Key         string     `json:"key"`
	Value       *string    `json:"value,omitempty"`
	Description *string    `json:"description,omitempty"`
	Category    *string    `json:"category,omitempty"`
	UpdatedBy   *uuid.UUID `json:"updated_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UpsertSettingDTO creates a setting or replaces its value.
type UpsertSettingDTO struct {
	Key         string  `json:"key" validate:"required"`
	Value       *string `json:"value,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// ListFilter narrows setting listings.
type ListFilter struct {
	Category string
}

// FromModel converts a persistence row into the transport shape.
func FromModel(setting *models.SystemSetting) *SettingDTO {
	if setting == nil {
		return nil
	}
	return &SettingDTO{
		ID:          setting.ID,
		Key:         setting.Key,
		Value:       setting.Value,
		Description: setting.Description,
		Category:    setting.Category,
		UpdatedBy:   setting.UpdatedBy,
		CreatedAt:   setting.CreatedAt,
		UpdatedAt:   setting.UpdatedAt,
	}
}

// FromModels maps a set of rows.
func FromModels(rows []models.SystemSetting) []SettingDTO {
	out := make([]SettingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
