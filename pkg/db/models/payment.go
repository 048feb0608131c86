package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aquasafi/aquasafi-backend/pkg/enums"
)

// Payment is a relational billing record; there is no external
// processor behind it.
type Payment struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	PaymentMethod *string             `gorm:"column:payment_method"`
	TransactionID string              `gorm:"column:transaction_id;not null;uniqueIndex"`
	Status        enums.PaymentStatus `gorm:"column:status;type:payment_status;not null;default:'pending'"`
	Description   *string             `gorm:"column:description;type:text"`
	PaymentDate   *time.Time          `gorm:"column:payment_date"`
	DueDate       *time.Time          `gorm:"column:due_date"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
