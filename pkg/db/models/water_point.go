package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aquasafi/aquasafi-backend/pkg/enums"
)

// WaterPoint is a physical water source or distribution asset. The
// cached quality_score mirrors the latest quality check's overall
// score. Name is unique within a region.
type WaterPoint struct {
	ID                  uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name                string                 `gorm:"column:name;not null;uniqueIndex:idx_water_points_region_name"`
	Type                *string                `gorm:"column:type"`
	Region              string                 `gorm:"column:region;not null;uniqueIndex:idx_water_points_region_name"`
	Location            *string                `gorm:"column:location"`
	Latitude            *float64               `gorm:"column:latitude"`
	Longitude           *float64               `gorm:"column:longitude"`
	Status              enums.WaterPointStatus `gorm:"column:status;type:water_point_status;not null;default:'active'"`
	Capacity            *float64               `gorm:"column:capacity"`
	CurrentLevel        *float64               `gorm:"column:current_level"`
	QualityScore        *float64               `gorm:"column:quality_score"`
	Coverage            *float64               `gorm:"column:coverage"`
	PopulationServed    *int                   `gorm:"column:population_served"`
	ManagerID           *uuid.UUID             `gorm:"column:manager_id;type:uuid;index"`
	WaterSource         *string                `gorm:"column:water_source"`
	InfrastructureType  *string                `gorm:"column:infrastructure_type"`
	TreatmentMethod     *string                `gorm:"column:treatment_method"`
	Notes               *string                `gorm:"column:notes;type:text"`
	InstallationDate    *time.Time             `gorm:"column:installation_date"`
	LastMaintenanceDate *time.Time             `gorm:"column:last_maintenance_date"`
	NextMaintenanceDate *time.Time             `gorm:"column:next_maintenance_date"`
	CreatedAt           time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
