package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/internal/audit"
	"github.com/aquasafi/aquasafi-backend/internal/guard"
	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// Service exposes the alert operations used by the controller.
type Service interface {
	Create(ctx context.Context, actor guard.Actor, dto CreateAlertDTO) (*AlertDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*AlertDTO, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]AlertDTO, pagination.Meta, error)
	Acknowledge(ctx context.Context, actor guard.Actor, id uuid.UUID) (*AlertDTO, error)
	Resolve(ctx context.Context, actor guard.Actor, id uuid.UUID) (*AlertDTO, error)
}

type repository interface {
	Create(ctx context.Context, dto CreateAlertDTO) (*models.Alert, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Alert, int64, error)
	Transition(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Alert, error)
}

type service struct {
	repo  repository
	audit audit.Recorder
}

// ServiceParams bundles the dependencies for the alert service.
type ServiceParams struct {
	Repo          repository
	AuditRecorder audit.Recorder
}

// NewService constructs an alert service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("alert repository is required")
	}
	if params.AuditRecorder == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &service{repo: params.Repo, audit: params.AuditRecorder}, nil
}

func (s *service) Create(ctx context.Context, actor guard.Actor, dto CreateAlertDTO) (*AlertDTO, error) {
	if !actor.IsOperational() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}
	if dto.Priority != "" && !dto.Priority.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid priority")
	}

	alert, err := s.repo.Create(ctx, dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create alert")
	}

	s.recordAudit(ctx, actor, "alert.create", alert.ID)
	return FromModel(alert), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*AlertDTO, error) {
	alert, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, alertNotFoundOrInternal(err, "load alert")
	}
	return FromModel(alert), nil
}

func (s *service) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]AlertDTO, pagination.Meta, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	if filter.Priority != nil && !filter.Priority.IsValid() {
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid priority filter")
	}

	page = pagination.Normalize(page)
	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list alerts")
	}
	return FromModels(rows), pagination.NewMeta(page, total), nil
}

// Acknowledge moves an active alert into acknowledged, stamping who and
// when. Any other starting state is rejected.
func (s *service) Acknowledge(ctx context.Context, actor guard.Actor, id uuid.UUID) (*AlertDTO, error) {
	if !actor.IsOperational() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}

	alert, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, alertNotFoundOrInternal(err, "load alert")
	}
	if !alert.Status.CanTransitionTo(enums.AlertStatusAcknowledged) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot acknowledge an alert in status %q", alert.Status))
	}

	now := time.Now().UTC()
	updated, err := s.repo.Transition(ctx, id, map[string]any{
		"status":          enums.AlertStatusAcknowledged,
		"acknowledged_by": actor.ID,
		"acknowledged_at": now,
	})
	if err != nil {
		return nil, alertNotFoundOrInternal(err, "acknowledge alert")
	}

	s.recordAudit(ctx, actor, "alert.acknowledge", id)
	return FromModel(updated), nil
}

// Resolve closes an alert from active or acknowledged. Resolved is
// terminal; resolving twice is rejected.
func (s *service) Resolve(ctx context.Context, actor guard.Actor, id uuid.UUID) (*AlertDTO, error) {
	if !actor.IsOperational() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}

	alert, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, alertNotFoundOrInternal(err, "load alert")
	}
	if !alert.Status.CanTransitionTo(enums.AlertStatusResolved) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot resolve an alert in status %q", alert.Status))
	}

	now := time.Now().UTC()
	updated, err := s.repo.Transition(ctx, id, map[string]any{
		"status":      enums.AlertStatusResolved,
		"resolved_at": now,
	})
	if err != nil {
		return nil, alertNotFoundOrInternal(err, "resolve alert")
	}

	s.recordAudit(ctx, actor, "alert.resolve", id)
	return FromModel(updated), nil
}

func (s *service) recordAudit(ctx context.Context, actor guard.Actor, action string, id uuid.UUID) {
	resourceID := id.String()
	s.audit.Record(ctx, audit.Entry{
		UserID:     &actor.ID,
		Action:     action,
		Resource:   "alert",
		ResourceID: &resourceID,
	})
}

func alertNotFoundOrInternal(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "alert not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
}
