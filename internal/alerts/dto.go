package alerts

import (
	"time"

	"github.com/google/uuid"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
)

// AlertDTO is the transport shape for an alert.
type AlertDTO struct {
	ID             uuid.UUID           `json:"id"`
	Type           string              `json:"type"`
	Title          string              `json:"title"`
	Description    *string             `json:"description,omitempty"`
	WaterPointID   *uuid.UUID          `json:"water_point_id,omitempty"`
	Priority       enums.AlertPriority `json:"priority"`
	Status         enums.AlertStatus   `json:"status"`
	AcknowledgedBy *uuid.UUID          `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time          `json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time          `json:"resolved_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// CreateAlertDTO carries a new alert. Alerts always start active.
type CreateAlertDTO struct {
	Type         string              `json:"type" validate:"required"`
	Title        string              `json:"title" validate:"required"`
	Description  *string             `json:"description,omitempty"`
	WaterPointID *uuid.UUID          `json:"water_point_id,omitempty"`
	Priority     enums.AlertPriority `json:"priority,omitempty"`
}

// ToModel maps the create payload onto a persistence row.
func (d CreateAlertDTO) ToModel() *models.Alert {
	priority := d.Priority
	if priority == "" {
		priority = enums.AlertPriorityMedium
	}
	return &models.Alert{
		Type:         d.Type,
		Title:        d.Title,
		Description:  d.Description,
		WaterPointID: d.WaterPointID,
		Priority:     priority,
		Status:       enums.AlertStatusActive,
	}
}

// ListFilter narrows alert listings.
type ListFilter struct {
	Status       *enums.AlertStatus
	Priority     *enums.AlertPriority
	Type         string
	WaterPointID *uuid.UUID
}

// FromModel converts a persistence row into the transport shape.
func FromModel(a *models.Alert) *AlertDTO {
	if a == nil {
		return nil
	}
	return &AlertDTO{
		ID:             a.ID,
		Type:           a.Type,
		Title:          a.Title,
		Description:    a.Description,
		WaterPointID:   a.WaterPointID,
		Priority:       a.Priority,
		Status:         a.Status,
		AcknowledgedBy: a.AcknowledgedBy,
		AcknowledgedAt: a.AcknowledgedAt,
		ResolvedAt:     a.ResolvedAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// FromModels maps a page of rows.
func FromModels(rows []models.Alert) []AlertDTO {
	out := make([]AlertDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
