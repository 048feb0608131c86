package waterpoints

import (
	"time"

	"github.com/google/uuid"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	"github.com/aquasafi/aquasafi-backend/pkg/types"
)

// WaterPointDTO is the transport shape for a water point.
type WaterPointDTO struct {
	ID                  uuid.UUID              `json:"id"`
	Name                string                 `json:"name"`
	Type                *string                `json:"type,omitempty"`
	Region              string                 `json:"region"`
	Location            *string                `json:"location,omitempty"`
	Latitude            *float64               `json:"latitude,omitempty"`
	Longitude           *float64               `json:"longitude,omitempty"`
	Status              enums.WaterPointStatus `json:"status"`
	Capacity            *float64               `json:"capacity,omitempty"`
	CurrentLevel        *float64               `json:"current_level,omitempty"`
	QualityScore        *float64               `json:"quality_score,omitempty"`
	Coverage            *float64               `json:"coverage,omitempty"`
	PopulationServed    *int                   `json:"population_served,omitempty"`
	ManagerID           *uuid.UUID             `json:"manager_id,omitempty"`
	WaterSource         *string                `json:"water_source,omitempty"`
	InfrastructureType  *string                `json:"infrastructure_type,omitempty"`
	TreatmentMethod     *string                `json:"treatment_method,omitempty"`
	Notes               *string                `json:"notes,omitempty"`
	InstallationDate    *time.Time             `json:"installation_date,omitempty"`
	LastMaintenanceDate *time.Time             `json:"last_maintenance_date,omitempty"`
	NextMaintenanceDate *time.Time             `json:"next_maintenance_date,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// CreateWaterPointDTO holds the fields accepted when registering a point.
type CreateWaterPointDTO struct {
	Name               string                 `json:"name" validate:"required"`
	Type               *string                `json:"type,omitempty"`
	Region             string                 `json:"region" validate:"required"`
	Location           *string                `json:"location,omitempty"`
	Latitude           *float64               `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude          *float64               `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Status             enums.WaterPointStatus `json:"status,omitempty"`
	Capacity           *float64               `json:"capacity,omitempty" validate:"omitempty,gte=0"`
	CurrentLevel       *float64               `json:"current_level,omitempty" validate:"omitempty,gte=0"`
	Coverage           *float64               `json:"coverage,omitempty" validate:"omitempty,gte=0,lte=100"`
	PopulationServed   *int                   `json:"population_served,omitempty" validate:"omitempty,gte=0"`
	ManagerID          *uuid.UUID             `json:"manager_id,omitempty"`
	WaterSource        *string                `json:"water_source,omitempty"`
	InfrastructureType *string                `json:"infrastructure_type,omitempty"`
	TreatmentMethod    *string                `json:"treatment_method,omitempty"`
	Notes              *string                `json:"notes,omitempty"`
	InstallationDate   *time.Time             `json:"installation_date,omitempty"`
}

// ToModel maps the create payload onto a persistence row.
func (d CreateWaterPointDTO) ToModel() *models.WaterPoint {
	status := d.Status
	if status == "" {
		status = enums.WaterPointStatusActive
	}
	return &models.WaterPoint{
		Name:               d.Name,
		Type:               d.Type,
		Region:             d.Region,
		Location:           d.Location,
		Latitude:           d.Latitude,
		Longitude:          d.Longitude,
		Status:             status,
		Capacity:           d.Capacity,
		CurrentLevel:       d.CurrentLevel,
		Coverage:           d.Coverage,
		PopulationServed:   d.PopulationServed,
		ManagerID:          d.ManagerID,
		WaterSource:        d.WaterSource,
		InfrastructureType: d.InfrastructureType,
		TreatmentMethod:    d.TreatmentMethod,
		Notes:              d.Notes,
		InstallationDate:   d.InstallationDate,
	}
}

// UpdateWaterPointDTO carries partial updates. Nil leaves the column
// untouched; ManagerID distinguishes "absent" from an explicit null.
type UpdateWaterPointDTO struct {
	Name                *string                 `json:"name,omitempty"`
	Type                *string                 `json:"type,omitempty"`
	Region              *string                 `json:"region,omitempty"`
	Location            *string                 `json:"location,omitempty"`
	Latitude            *float64                `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude           *float64                `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Status              *enums.WaterPointStatus `json:"status,omitempty"`
	Capacity            *float64                `json:"capacity,omitempty" validate:"omitempty,gte=0"`
	CurrentLevel        *float64                `json:"current_level,omitempty" validate:"omitempty,gte=0"`
	Coverage            *float64                `json:"coverage,omitempty" validate:"omitempty,gte=0,lte=100"`
	PopulationServed    *int                    `json:"population_served,omitempty" validate:"omitempty,gte=0"`
	ManagerID           types.NullableUUID      `json:"manager_id,omitempty"`
	WaterSource         *string                 `json:"water_source,omitempty"`
	InfrastructureType  *string                 `json:"infrastructure_type,omitempty"`
	TreatmentMethod     *string                 `json:"treatment_method,omitempty"`
	Notes               *string                 `json:"notes,omitempty"`
	InstallationDate    *time.Time              `json:"installation_date,omitempty"`
	NextMaintenanceDate *time.Time              `json:"next_maintenance_date,omitempty"`
}

func (d UpdateWaterPointDTO) changes() map[string]any {
	updates := map[string]any{}
	if d.Name != nil {
		updates["name"] = *d.Name
	}
	if d.Type != nil {
		updates["type"] = *d.Type
	}
	if d.Region != nil {
		updates["region"] = *d.Region
	}
	if d.Location != nil {
		updates["location"] = *d.Location
	}
	if d.Latitude != nil {
		updates["latitude"] = *d.Latitude
	}
	if d.Longitude != nil {
		updates["longitude"] = *d.Longitude
	}
	if d.Status != nil {
		updates["status"] = *d.Status
	}
	if d.Capacity != nil {
		updates["capacity"] = *d.Capacity
	}
	if d.CurrentLevel != nil {
		updates["current_level"] = *d.CurrentLevel
	}
	if d.Coverage != nil {
		updates["coverage"] = *d.Coverage
	}
	if d.PopulationServed != nil {
		updates["population_served"] = *d.PopulationServed
	}
	if d.ManagerID.Valid {
		updates["manager_id"] = d.ManagerID.Value
	}
	if d.WaterSource != nil {
		updates["water_source"] = *d.WaterSource
	}
	if d.InfrastructureType != nil {
		updates["infrastructure_type"] = *d.InfrastructureType
	}
	if d.TreatmentMethod != nil {
		updates["treatment_method"] = *d.TreatmentMethod
	}
	if d.Notes != nil {
		updates["notes"] = *d.Notes
	}
	if d.InstallationDate != nil {
		updates["installation_date"] = *d.InstallationDate
	}
	if d.NextMaintenanceDate != nil {
		updates["next_maintenance_date"] = *d.NextMaintenanceDate
	}
	return updates
}

// BulkUpdateDTO applies the same status and/or manager to many points.
type BulkUpdateDTO struct {
	IDs       []uuid.UUID             `json:"ids" validate:"required,min=1"`
	Status    *enums.WaterPointStatus `json:"status,omitempty"`
	ManagerID types.NullableUUID      `json:"manager_id,omitempty"`
}

// ListFilter narrows water point listings.
type ListFilter struct {
	Region    string
	Status    *enums.WaterPointStatus
	ManagerID *uuid.UUID
	Search    string
}

// FromModel converts a persistence row into the transport shape.
func FromModel(wp *models.WaterPoint) *WaterPointDTO {
	if wp == nil {
		return nil
	}
	return &WaterPointDTO{
		ID:                  wp.ID,
		Name:                wp.Name,
		Type:                wp.Type,
		Region:              wp.Region,
		Location:            wp.Location,
		Latitude:            wp.Latitude,
		Longitude:           wp.Longitude,
		Status:              wp.Status,
		Capacity:            wp.Capacity,
		CurrentLevel:        wp.CurrentLevel,
		QualityScore:        wp.QualityScore,
		Coverage:            wp.Coverage,
		PopulationServed:    wp.PopulationServed,
		ManagerID:           wp.ManagerID,
		WaterSource:         wp.WaterSource,
		InfrastructureType:  wp.InfrastructureType,
		TreatmentMethod:     wp.TreatmentMethod,
		Notes:               wp.Notes,
		InstallationDate:    wp.InstallationDate,
		LastMaintenanceDate: wp.LastMaintenanceDate,
		NextMaintenanceDate: wp.NextMaintenanceDate,
		CreatedAt:           wp.CreatedAt,
		UpdatedAt:           wp.UpdatedAt,
	}
}

// FromModels maps a page of rows.
func FromModels(rows []models.WaterPoint) []WaterPointDTO {
	out := make([]WaterPointDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
