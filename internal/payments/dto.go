package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
)

// PaymentDTO is the transport shape for a billing record.
type PaymentDTO struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"user_id"`
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod *string             `json:"payment_method,omitempty"`
	TransactionID string              `json:"transaction_id"`
	Status        enums.PaymentStatus `json:"status"`
	Description   *string             `json:"description,omitempty"`
	PaymentDate   *time.Time          `json:"payment_date,omitempty"`
	DueDate       *time.Time          `json:"due_date,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// RecordPaymentDTO carries a new billing record.
type RecordPaymentDTO struct {
	UserID        *uuid.UUID          `json:"user_id,omitempty"`
	Amount        decimal.Decimal     `json:"amount" validate:"required"`
	PaymentMethod *string             `json:"payment_method,omitempty"`
	TransactionID string              `json:"transaction_id" validate:"required"`
	Status        enums.PaymentStatus `json:"status,omitempty"`
	Description   *string             `json:"description,omitempty"`
	PaymentDate   *time.Time          `json:"payment_date,omitempty"`
	DueDate       *time.Time          `json:"due_date,omitempty"`
}

// ListFilter narrows payment listings.
type ListFilter struct {
	UserID *uuid.UUID
	Status *enums.PaymentStatus
	From   *time.Time
	To     *time.Time
}

// FromModel converts a persistence row into the transport shape.
func FromModel(p *models.Payment) *PaymentDTO {
	if p == nil {
		return nil
	}
	return &PaymentDTO{
		ID:            p.ID,
		UserID:        p.UserID,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
		Status:        p.Status,
		Description:   p.Description,
		PaymentDate:   p.PaymentDate,
		DueDate:       p.DueDate,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// FromModels maps a page of rows.
func FromModels(rows []models.Payment) []PaymentDTO {
	out := make([]PaymentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
