package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// Repository persists and queries the append-only audit trail.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an audit repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create appends a single audit row. Rows are never updated.
func (r *Repository) Create(ctx context.Context, row *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// ListFilter narrows the admin audit listing.
type ListFilter struct {
	UserID   *uuid.UUID
	Resource string
	Action   string
	From     *time.Time
	To       *time.Time
}

// List returns a filtered page of audit rows, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.AuditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Resource != "" {
		query = query.Where("resource = ?", filter.Resource)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	norm := pagination.Normalize(page)
	var rows []models.AuditLog
	if err := query.
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(norm.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
