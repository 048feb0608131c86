package settings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
)

// Repository provides persistence for system settings.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a repository to the given database handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByKey loads a single setting.
func (r *Repository) FindByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	var setting models.SystemSetting
	if err := r.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// List returns settings, optionally scoped to one category.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.SystemSetting, error) {
	query := r.db.WithContext(ctx).Model(&models.SystemSetting{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var rows []models.SystemSetting
	if err := query.Order("key ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert creates the setting or replaces its value, keyed on the
// unique key column.
func (r *Repository) Upsert(ctx context.Context, dto UpsertSettingDTO, updatedBy uuid.UUID) (*models.SystemSetting, error) {
	setting := models.SystemSetting{
		Key:         dto.Key,
		Value:       dto.Value,
		Description: dto.Description,
		Category:    dto.Category,
		UpdatedBy:   &updatedBy,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "description", "category", "updated_by", "updated_at"}),
		}).
		Create(&setting).Error
	if err != nil {
		return nil, err
	}
	return r.FindByKey(ctx, dto.Key)
}

// Delete removes a setting.
func (r *Repository) Delete(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Delete(&models.SystemSetting{}, "key = ?", key)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
