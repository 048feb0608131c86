package maintenance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// Repository provides persistence for maintenance tasks.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a repository to the given database handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new task.
func (r *Repository) Create(ctx context.Context, dto CreateTaskDTO) (*models.MaintenanceTask, error) {
	task := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// FindByID loads a single task.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceTask, error) {
	var task models.MaintenanceTask
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns a page of tasks matching the filter plus the total count.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.MaintenanceTask, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.MaintenanceTask{})
	if filter.WaterPointID != nil {
		query = query.Where("water_point_id = ?", *filter.WaterPointID)
	}
	if filter.TechnicianID != nil {
		query = query.Where("technician_id = ?", *filter.TechnicianID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.MaintenanceTask
	err := query.
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Update applies a partial update and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.MaintenanceTask, error) {
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).
			Model(&models.MaintenanceTask{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// CountOverdue tallies open tasks whose scheduled date has passed.
func (r *Repository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.MaintenanceTask{}).
		Where("status IN ?", []enums.TaskStatus{enums.TaskStatusPending, enums.TaskStatusInProgress}).
		Where("scheduled_date < ?", now).
		Count(&total).Error
	return total, err
}

// CountByStatus groups tasks per status.
func (r *Repository) CountByStatus(ctx context.Context) (map[enums.TaskStatus]int64, error) {
	type row struct {
		Status enums.TaskStatus
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.MaintenanceTask{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[enums.TaskStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Total
	}
	return out, nil
}

// CountOpenForWaterPoint tallies pending and in-progress tasks against
// the point.
func (r *Repository) CountOpenForWaterPoint(ctx context.Context, waterPointID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.MaintenanceTask{}).
		Where("water_point_id = ?", waterPointID).
		Where("status IN ?", []enums.TaskStatus{enums.TaskStatusPending, enums.TaskStatusInProgress}).
		Count(&total).Error
	return total, err
}
