package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// Repository provides persistence for payment records.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a repository to the given database handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a payment record.
func (r *Repository) Create(ctx context.Context, row *models.Payment) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// FindByID loads a single payment.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// List returns a page of payments, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Payment{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
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

	var rows []models.Payment
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

// TotalCompletedSince sums settled revenue after the cutoff.
func (r *Repository) TotalCompletedSince(ctx context.Context, cutoff *time.Time) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("status = ?", enums.PaymentStatusCompleted)
	if cutoff != nil {
		query = query.Where("payment_date >= ?", *cutoff)
	}
	var total decimal.NullDecimal
	if err := query.Select("sum(amount)").Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// CountByStatus groups payments per settlement state.
func (r *Repository) CountByStatus(ctx context.Context) (map[enums.PaymentStatus]int64, error) {
	type row struct {
		Status enums.PaymentStatus
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[enums.PaymentStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Total
	}
	return out, nil
}
