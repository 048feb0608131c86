package models

import (
	"time"

	"github.com/google/uuid"
)

// QualityCheck is an immutable water-quality sample. The overall score
// and safety verdict are derived once at creation time.
type QualityCheck struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	WaterPointID   uuid.UUID  `gorm:"column:water_point_id;type:uuid;not null;index"`
	CheckedBy      *uuid.UUID `gorm:"column:checked_by;type:uuid"`
	PHLevel        *float64   `gorm:"column:ph_level"`
	Turbidity      *float64   `gorm:"column:turbidity"`
	ChlorineLevel  *float64   `gorm:"column:chlorine_level"`
	Temperature    *float64   `gorm:"column:temperature"`
	EColiPresence  bool       `gorm:"column:e_coli_presence;not null;default:false"`
	TotalColiform  *float64   `gorm:"column:total_coliform"`
	OverallScore   float64    `gorm:"column:overall_score;not null"`
	IsSafe         bool       `gorm:"column:is_safe;not null"`
	Notes          *string    `gorm:"column:notes;type:text"`
	CheckedAt      time.Time  `gorm:"column:checked_at;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}
