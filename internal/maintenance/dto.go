package maintenance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	"github.com/aquasafi/aquasafi-backend/pkg/types"
)

// TaskDTO is the transport shape for a maintenance task.
type TaskDTO struct {
	ID                uuid.UUID          `json:"id"`
	WaterPointID      uuid.UUID          `json:"water_point_id"`
	TechnicianID      *uuid.UUID         `json:"technician_id,omitempty"`
	Title             string             `json:"title"`
	Description       *string            `json:"description,omitempty"`
	Priority          enums.TaskPriority `json:"priority"`
	Status            enums.TaskStatus   `json:"status"`
	ScheduledDate     *time.Time         `json:"scheduled_date,omitempty"`
	CompletedDate     *time.Time         `json:"completed_date,omitempty"`
	EstimatedDuration *int               `json:"estimated_duration,omitempty"`
	ActualDuration    *int               `json:"actual_duration,omitempty"`
	Cost              *decimal.Decimal   `json:"cost,omitempty"`
	PartsUsed         *string            `json:"parts_used,omitempty"`
	Notes             *string            `json:"notes,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// CreateTaskDTO holds the fields accepted when scheduling work.
type CreateTaskDTO struct {
	WaterPointID      uuid.UUID          `json:"water_point_id" validate:"required"`
	TechnicianID      *uuid.UUID         `json:"technician_id,omitempty"`
	Title             string             `json:"title" validate:"required"`
	Description       *string            `json:"description,omitempty"`
	Priority          enums.TaskPriority `json:"priority,omitempty"`
	ScheduledDate     *time.Time         `json:"scheduled_date,omitempty"`
	EstimatedDuration *int               `json:"estimated_duration,omitempty" validate:"omitempty,gt=0"`
	Notes             *string            `json:"notes,omitempty"`
}

// ToModel maps the create payload onto a persistence row.
func (d CreateTaskDTO) ToModel() *models.MaintenanceTask {
	priority := d.Priority
	if priority == "" {
		priority = enums.TaskPriorityMedium
	}
	return &models.MaintenanceTask{
		WaterPointID:      d.WaterPointID,
		TechnicianID:      d.TechnicianID,
		Title:             d.Title,
		Description:       d.Description,
		Priority:          priority,
		Status:            enums.TaskStatusPending,
		ScheduledDate:     d.ScheduledDate,
		EstimatedDuration: d.EstimatedDuration,
		Notes:             d.Notes,
	}
}

// UpdateTaskDTO carries partial updates. Nil leaves the column
// untouched; TechnicianID distinguishes "absent" from unassignment.
type UpdateTaskDTO struct {
	TechnicianID      types.NullableUUID  `json:"technician_id,omitempty"`
	Title             *string             `json:"title,omitempty"`
	Description       *string             `json:"description,omitempty"`
	Priority          *enums.TaskPriority `json:"priority,omitempty"`
	Status            *enums.TaskStatus   `json:"status,omitempty"`
	ScheduledDate     *time.Time          `json:"scheduled_date,omitempty"`
	EstimatedDuration *int                `json:"estimated_duration,omitempty" validate:"omitempty,gt=0"`
	ActualDuration    *int                `json:"actual_duration,omitempty" validate:"omitempty,gt=0"`
	Cost              *decimal.Decimal    `json:"cost,omitempty"`
	PartsUsed         *string             `json:"parts_used,omitempty"`
	Notes             *string             `json:"notes,omitempty"`
}

func (d UpdateTaskDTO) changes() map[string]any {
	updates := map[string]any{}
	if d.TechnicianID.Valid {
		updates["technician_id"] = d.TechnicianID.Value
	}
	if d.Title != nil {
		updates["title"] = *d.Title
	}
	if d.Description != nil {
		updates["description"] = *d.Description
	}
	if d.Priority != nil {
		updates["priority"] = *d.Priority
	}
	if d.Status != nil {
		updates["status"] = *d.Status
	}
	if d.ScheduledDate != nil {
		updates["scheduled_date"] = *d.ScheduledDate
	}
	if d.EstimatedDuration != nil {
		updates["estimated_duration"] = *d.EstimatedDuration
	}
	if d.ActualDuration != nil {
		updates["actual_duration"] = *d.ActualDuration
	}
	if d.Cost != nil {
		updates["cost"] = *d.Cost
	}
	if d.PartsUsed != nil {
		updates["parts_used"] = *d.PartsUsed
	}
	if d.Notes != nil {
		updates["notes"] = *d.Notes
	}
	return updates
}

// ListFilter narrows task listings.
type ListFilter struct {
	WaterPointID *uuid.UUID
	TechnicianID *uuid.UUID
	Status       *enums.TaskStatus
	Priority     *enums.TaskPriority
}

// FromModel converts a persistence row into the transport shape.
func FromModel(task *models.MaintenanceTask) *TaskDTO {
	if task == nil {
		return nil
	}
	return &TaskDTO{
		ID:                task.ID,
		WaterPointID:      task.WaterPointID,
		TechnicianID:      task.TechnicianID,
		Title:             task.Title,
		Description:       task.Description,
		Priority:          task.Priority,
		Status:            task.Status,
		ScheduledDate:     task.ScheduledDate,
		CompletedDate:     task.CompletedDate,
		EstimatedDuration: task.EstimatedDuration,
		ActualDuration:    task.ActualDuration,
		Cost:              task.Cost,
		PartsUsed:         task.PartsUsed,
		Notes:             task.Notes,
		CreatedAt:         task.CreatedAt,
		UpdatedAt:         task.UpdatedAt,
	}
}

// FromModels maps a page of rows.
func FromModels(rows []models.MaintenanceTask) []TaskDTO {
	out := make([]TaskDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
