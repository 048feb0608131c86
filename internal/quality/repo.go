package quality

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// Repository provides persistence for quality checks. Checks are
// append-only; there is deliberately no update or delete path.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a repository to the given database handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a scored check.
func (r *Repository) Create(ctx context.Context, check *models.QualityCheck) error {
	return r.db.WithContext(ctx).Create(check).Error
}

// FindByID loads a single check.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.QualityCheck, error) {
	var check models.QualityCheck
	if err := r.db.WithContext(ctx).First(&check, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &check, nil
}

// List returns a page of checks, newest sample first.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.QualityCheck, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.QualityCheck{})
	if filter.WaterPointID != nil {
		query = query.Where("water_point_id = ?", *filter.WaterPointID)
	}
	if filter.IsSafe != nil {
		query = query.Where("is_safe = ?", *filter.IsSafe)
	}
	if filter.From != nil {
		query = query.Where("checked_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("checked_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.QualityCheck
	err := query.
		Order("checked_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// LatestForWaterPoint returns the most recent check for the point, or
// gorm.ErrRecordNotFound when none exists.
func (r *Repository) LatestForWaterPoint(ctx context.Context, waterPointID uuid.UUID) (*models.QualityCheck, error) {
	var check models.QualityCheck
	err := r.db.WithContext(ctx).
		Where("water_point_id = ?", waterPointID).
		Order("checked_at DESC").
		First(&check).Error
	if err != nil {
		return nil, err
	}
	return &check, nil
}

// AverageScoreSince computes the mean overall score across checks taken
// after the cutoff. Returns 0 with no error when there are none.
func (r *Repository) AverageScoreSince(ctx context.Context, cutoff *time.Time) (float64, error) {
	query := r.db.WithContext(ctx).Model(&models.QualityCheck{})
	if cutoff != nil {
		query = query.Where("checked_at >= ?", *cutoff)
	}
	var avg *float64
	if err := query.Select("avg(overall_score)").Scan(&avg).Error; err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// CountUnsafeSince tallies unsafe samples taken after the cutoff.
func (r *Repository) CountUnsafeSince(ctx context.Context, cutoff *time.Time) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.QualityCheck{}).
		Where("is_safe = false")
	if cutoff != nil {
		query = query.Where("checked_at >= ?", *cutoff)
	}
	var total int64
	err := query.Count(&total).Error
	return total, err
}
