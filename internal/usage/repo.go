package usage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// Repository provides persistence for water usage records.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a repository to the given database handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a consumption record.
func (r *Repository) Create(ctx context.Context, row *models.WaterUsage) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// List returns a page of usage records, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.WaterUsage, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WaterUsage{})
	if filter.WaterPointID != nil {
		query = query.Where("water_point_id = ?", *filter.WaterPointID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.UsageType != "" {
		query = query.Where("usage_type = ?", filter.UsageType)
	}
	if filter.From != nil {
		query = query.Where("recorded_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("recorded_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.WaterUsage
	err := query.
		Order("recorded_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// TotalAmountSince sums consumption recorded after the cutoff.
func (r *Repository) TotalAmountSince(ctx context.Context, cutoff *time.Time) (float64, error) {
	query := r.db.WithContext(ctx).Model(&models.WaterUsage{})
	if cutoff != nil {
		query = query.Where("recorded_at >= ?", *cutoff)
	}
	var total *float64
	if err := query.Select("sum(amount)").Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// DailyTotal is one bucket of the usage trend series.
type DailyTotal struct {
	Day   time.Time `json:"day"`
	Total float64   `json:"total"`
}

// DailyTotals buckets consumption per day for the trailing window.
func (r *Repository) DailyTotals(ctx context.Context, waterPointID *uuid.UUID, since time.Time) ([]DailyTotal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.WaterUsage{}).
		Select("date_trunc('day', recorded_at) as day, sum(amount) as total").
		Where("recorded_at >= ?", since).
		Group("day").
		Order("day ASC")
	if waterPointID != nil {
		query = query.Where("water_point_id = ?", *waterPointID)
	}
	var rows []DailyTotal
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
