package quality

import (
	"time"

	"github.com/google/uuid"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
)

// QualityCheckDTO is the transport shape for a recorded check.
type QualityCheckDTO struct {
	ID            uuid.UUID  `json:"id"`
	WaterPointID  uuid.UUID  `json:"water_point_id"`
	CheckedBy     *uuid.UUID `json:"checked_by,omitempty"`
	PHLevel       *float64   `json:"ph_level,omitempty"`
	Turbidity     *float64   `json:"turbidity,omitempty"`
	ChlorineLevel *float64   `json:"chlorine_level,omitempty"`
	Temperature   *float64   `json:"temperature,omitempty"`
	EColiPresence bool       `json:"e_coli_presence"`
	TotalColiform *float64   `json:"total_coliform,omitempty"`
	OverallScore  float64    `json:"overall_score"`
	IsSafe        bool       `json:"is_safe"`
	Notes         *string    `json:"notes,omitempty"`
	CheckedAt     time.Time  `json:"checked_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CreateQualityCheckDTO carries a new sample. The score and safety
// verdict are derived server-side, never accepted from the client.
type CreateQualityCheckDTO struct {
	WaterPointID  uuid.UUID  `json:"water_point_id" validate:"required"`
	PHLevel       *float64   `json:"ph_level,omitempty" validate:"omitempty,gte=0,lte=14"`
	Turbidity     *float64   `json:"turbidity,omitempty" validate:"omitempty,gte=0"`
	ChlorineLevel *float64   `json:"chlorine_level,omitempty" validate:"omitempty,gte=0"`
	Temperature   *float64   `json:"temperature,omitempty"`
	EColiPresence bool       `json:"e_coli_presence"`
	TotalColiform *float64   `json:"total_coliform,omitempty" validate:"omitempty,gte=0"`
	Notes         *string    `json:"notes,omitempty"`
	CheckedAt     *time.Time `json:"checked_at,omitempty"`
}

// ListFilter narrows quality check listings.
type ListFilter struct {
	WaterPointID *uuid.UUID
	IsSafe       *bool
	From         *time.Time
	To           *time.Time
}

// FromModel converts a persistence row into the transport shape.
func FromModel(qc *models.QualityCheck) *QualityCheckDTO {
	if qc == nil {
		return nil
	}
	return &QualityCheckDTO{
		ID:            qc.ID,
		WaterPointID:  qc.WaterPointID,
		CheckedBy:     qc.CheckedBy,
		PHLevel:       qc.PHLevel,
		Turbidity:     qc.Turbidity,
		ChlorineLevel: qc.ChlorineLevel,
		Temperature:   qc.Temperature,
		EColiPresence: qc.EColiPresence,
		TotalColiform: qc.TotalColiform,
		OverallScore:  qc.OverallScore,
		IsSafe:        qc.IsSafe,
		Notes:         qc.Notes,
		CheckedAt:     qc.CheckedAt,
		CreatedAt:     qc.CreatedAt,
	}
}

// FromModels maps a page of rows.
func FromModels(rows []models.QualityCheck) []QualityCheckDTO {
	out := make([]QualityCheckDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
