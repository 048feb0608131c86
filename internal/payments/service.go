package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aquasafi/aquasafi-backend/internal/audit"
	"github.com/aquasafi/aquasafi-backend/internal/guard"
	"github.com/aquasafi/aquasafi-backend/pkg/db"
	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// Service exposes the payment operations used by the controller.
type Service interface {
	Record(ctx context.Context, actor guard.Actor, dto RecordPaymentDTO) (*PaymentDTO, error)
	List(ctx context.Context, actor guard.Actor, filter ListFilter, page pagination.Params) ([]PaymentDTO, pagination.Meta, error)
}

type repository interface {
	Create(ctx context.Context, row *models.Payment) error
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Payment, int64, error)
}

type service struct {
	repo  repository
	audit audit.Recorder
}

// ServiceParams bundles the dependencies for the payment service.
type ServiceParams struct {
	Repo          repository
	AuditRecorder audit.Recorder
}

// NewService constructs a payment service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("payment repository is required")
	}
	if params.AuditRecorder == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &service{repo: params.Repo, audit: params.AuditRecorder}, nil
}

// Record writes a billing record. Community members always pay as
// themselves; staff may record payments on behalf of any user.
// Transaction IDs are globally unique.
func (s *service) Record(ctx context.Context, actor guard.Actor, dto RecordPaymentDTO) (*PaymentDTO, error) {
	if dto.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	transactionID := strings.TrimSpace(dto.TransactionID)
	if transactionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction_id is required")
	}
	status := dto.Status
	if status == "" {
		status = enums.PaymentStatusPending
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	userID := actor.ID
	if dto.UserID != nil {
		if !actor.IsPrivileged() && *dto.UserID != actor.ID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot record payments for another user")
		}
		userID = *dto.UserID
	}

	paymentDate := dto.PaymentDate
	if status == enums.PaymentStatusCompleted && paymentDate == nil {
		now := time.Now().UTC()
		paymentDate = &now
	}

	row := &models.Payment{
		UserID:        userID,
		Amount:        dto.Amount,
		PaymentMethod: dto.PaymentMethod,
		TransactionID: transactionID,
		Status:        status,
		Description:   dto.Description,
		PaymentDate:   paymentDate,
		DueDate:       dto.DueDate,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "transaction_id already recorded")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record payment")
	}

	resourceID := row.ID.String()
	s.audit.Record(ctx, audit.Entry{
		UserID:     &actor.ID,
		Action:     "payment.record",
		Resource:   "payment",
		ResourceID: &resourceID,
	})
	return FromModel(row), nil
}

// List scopes community members and technicians to their own payments;
// admins and supervisors see everything the filter allows.
func (s *service) List(ctx context.Context, actor guard.Actor, filter ListFilter, page pagination.Params) ([]PaymentDTO, pagination.Meta, error) {
	if !actor.IsPrivileged() {
		filter.UserID = &actor.ID
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}

	page = pagination.Normalize(page)
	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list payments")
	}
	return FromModels(rows), pagination.NewMeta(page, total), nil
}
