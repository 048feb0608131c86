package waterpoints

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// Repository provides persistence for water points.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a repository to the given database handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new water point.
func (r *Repository) Create(ctx context.Context, dto CreateWaterPointDTO) (*models.WaterPoint, error) {
	wp := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(wp).Error; err != nil {
		return nil, err
	}
	return wp, nil
}

// FindByID loads a single water point.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.WaterPoint, error) {
	var wp models.WaterPoint
	if err := r.db.WithContext(ctx).First(&wp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &wp, nil
}

// List returns a page of water points matching the filter plus the total count.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.WaterPoint, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WaterPoint{})
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ManagerID != nil {
		query = query.Where("manager_id = ?", *filter.ManagerID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR location ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.WaterPoint
	err := query.
		Order("region ASC, name ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListByStatus returns every point in the given status, unpaged. Used by
// the monitoring aggregator.
func (r *Repository) ListByStatus(ctx context.Context, status enums.WaterPointStatus) ([]models.WaterPoint, error) {
	var rows []models.WaterPoint
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("region ASC, name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByStatus groups points per status.
func (r *Repository) CountByStatus(ctx context.Context) (map[enums.WaterPointStatus]int64, error) {
	type row struct {
		Status enums.WaterPointStatus
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.WaterPoint{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[enums.WaterPointStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Total
	}
	return out, nil
}

// AverageQualityScore computes the mean cached score across non-archived
// points. Points without a score are excluded.
func (r *Repository) AverageQualityScore(ctx context.Context) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&models.WaterPoint{}).
		Where("status <> ?", enums.WaterPointStatusArchived).
		Where("quality_score IS NOT NULL").
		Select("avg(quality_score)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// Update applies a partial update and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, dto UpdateWaterPointDTO) (*models.WaterPoint, error) {
	updates := dto.changes()
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).
			Model(&models.WaterPoint{}).
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

// SetStatus transitions a point into the given status.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status enums.WaterPointStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.WaterPoint{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// BulkUpdate applies shared fields across many points and reports how
// many rows changed.
func (r *Repository) BulkUpdate(ctx context.Context, dto BulkUpdateDTO) (int64, error) {
	updates := map[string]any{}
	if dto.Status != nil {
		updates["status"] = *dto.Status
	}
	if dto.ManagerID.Valid {
		updates["manager_id"] = dto.ManagerID.Value
	}
	if len(updates) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.WaterPoint{}).
		Where("id IN ?", dto.IDs).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// UpdateQualityScore refreshes the cached score.
func (r *Repository) UpdateQualityScore(ctx context.Context, id uuid.UUID, score float64) error {
	result := r.db.WithContext(ctx).
		Model(&models.WaterPoint{}).
		Where("id = ?", id).
		Update("quality_score", score)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateMaintenanceDates stamps the last service and, when known, the
// next scheduled one.
func (r *Repository) UpdateMaintenanceDates(ctx context.Context, id uuid.UUID, last time.Time, next *time.Time) error {
	updates := map[string]any{"last_maintenance_date": last}
	if next != nil {
		updates["next_maintenance_date"] = *next
	}
	result := r.db.WithContext(ctx).
		Model(&models.WaterPoint{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DependentCounts reports how many rows in other tables reference the
// point. Deletion is blocked while any are present.
type DependentCounts struct {
	Tasks         int64
	QualityChecks int64
	UsageRecords  int64
	Alerts        int64
}

// Total sums every dependent category.
func (c DependentCounts) Total() int64 {
	return c.Tasks + c.QualityChecks + c.UsageRecords + c.Alerts
}

// CountDependents tallies rows referencing the point.
func (r *Repository) CountDependents(ctx context.Context, id uuid.UUID) (DependentCounts, error) {
	var counts DependentCounts
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.MaintenanceTask{}).Where("water_point_id = ?", id).Count(&counts.Tasks).Error; err != nil {
		return counts, err
	}
	if err := db.Model(&models.QualityCheck{}).Where("water_point_id = ?", id).Count(&counts.QualityChecks).Error; err != nil {
		return counts, err
	}
	if err := db.Model(&models.WaterUsage{}).Where("water_point_id = ?", id).Count(&counts.UsageRecords).Error; err != nil {
		return counts, err
	}
	if err := db.Model(&models.Alert{}).Where("water_point_id = ?", id).Count(&counts.Alerts).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

// Delete permanently removes a point. Callers must have verified there
// are no dependents.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.WaterPoint{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
