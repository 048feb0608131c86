package alerts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// Repository provides persistence for alerts.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a repository to the given database handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new alert.
func (r *Repository) Create(ctx context.Context, dto CreateAlertDTO) (*models.Alert, error) {
	alert := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(alert).Error; err != nil {
		return nil, err
	}
	return alert, nil
}

// FindByID loads a single alert.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	var alert models.Alert
	if err := r.db.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

// List returns a page of alerts, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Alert, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Alert{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.WaterPointID != nil {
		query = query.Where("water_point_id = ?", *filter.WaterPointID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Alert
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

// Transition persists a lifecycle change along with its stamps.
func (r *Repository) Transition(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Alert, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

// CountActiveByPriority tallies active alerts of the given priority.
func (r *Repository) CountActiveByPriority(ctx context.Context, priority enums.AlertPriority) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("status = ?", enums.AlertStatusActive).
		Where("priority = ?", priority).
		Count(&total).Error
	return total, err
}

// CountActive tallies all active alerts.
func (r *Repository) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("status = ?", enums.AlertStatusActive).
		Count(&total).Error
	return total, err
}

// HasActiveForWaterPoint reports whether the point has any active alert.
func (r *Repository) HasActiveForWaterPoint(ctx context.Context, waterPointID uuid.UUID) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("water_point_id = ?", waterPointID).
		Where("status = ?", enums.AlertStatusActive).
		Count(&total).Error
	return total > 0, err
}

// ListActiveForWaterPoints returns active alerts grouped by point.
func (r *Repository) ListActiveForWaterPoints(ctx context.Context, waterPointIDs []uuid.UUID) (map[uuid.UUID][]models.Alert, error) {
	var rows []models.Alert
	err := r.db.WithContext(ctx).
		Where("water_point_id IN ?", waterPointIDs).
		Where("status = ?", enums.AlertStatusActive).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID][]models.Alert)
	for _, alert := range rows {
		if alert.WaterPointID == nil {
			continue
		}
		out[*alert.WaterPointID] = append(out[*alert.WaterPointID], alert)
	}
	return out, nil
}
