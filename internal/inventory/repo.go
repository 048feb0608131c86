package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// Repository provides persistence for inventory items.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a repository to the given database handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new item.
func (r *Repository) Create(ctx context.Context, dto CreateItemDTO) (*models.InventoryItem, error) {
	item := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads a single item.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns a page of items matching the filter plus the total count.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.InventoryItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InventoryItem{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		query = query.Where("item_name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.InventoryItem
	err := query.
		Order("item_name ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListLowStock returns every item at or below its minimum quantity.
func (r *Repository) ListLowStock(ctx context.Context) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("quantity <= min_quantity").
		Order("item_name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update applies a partial update and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.InventoryItem, error) {
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).
			Model(&models.InventoryItem{}).
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

// Delete removes an item.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InventoryItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
