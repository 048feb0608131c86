package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aquasafi/aquasafi-backend/internal/audit"
	"github.com/aquasafi/aquasafi-backend/internal/guard"
	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// Service exposes the usage operations used by the controller.
type Service interface {
	Record(ctx context.Context, actor guard.Actor, dto RecordUsageDTO) (*UsageDTO, error)
	List(ctx context.Context, actor guard.Actor, filter ListFilter, page pagination.Params) ([]UsageDTO, pagination.Meta, error)
	Trends(ctx context.Context, waterPointID *uuid.UUID, days int) ([]DailyTotal, error)
}

type repository interface {
	Create(ctx context.Context, row *models.WaterUsage) error
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.WaterUsage, int64, error)
	DailyTotals(ctx context.Context, waterPointID *uuid.UUID, since time.Time) ([]DailyTotal, error)
}

type service struct {
	repo  repository
	audit audit.Recorder
}

// ServiceParams bundles the dependencies for the usage service.
type ServiceParams struct {
	Repo          repository
	AuditRecorder audit.Recorder
}

// NewService constructs a usage service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("usage repository is required")
	}
	if params.AuditRecorder == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &service{repo: params.Repo, audit: params.AuditRecorder}, nil
}

// Record writes a consumption entry. Community members always record
// against themselves; staff may record on behalf of any user.
func (s *service) Record(ctx context.Context, actor guard.Actor, dto RecordUsageDTO) (*UsageDTO, error) {
	if dto.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	userID := dto.UserID
	if !actor.IsOperational() {
		userID = &actor.ID
	}
	recordedAt := time.Now().UTC()
	if dto.RecordedAt != nil {
		recordedAt = dto.RecordedAt.UTC()
	}

	row := &models.WaterUsage{
		WaterPointID: dto.WaterPointID,
		UserID:       userID,
		Amount:       dto.Amount,
		Cost:         dto.Cost,
		UsageType:    dto.UsageType,
		MeterReading: dto.MeterReading,
		RecordedAt:   recordedAt,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record water usage")
	}

	resourceID := row.ID.String()
	s.audit.Record(ctx, audit.Entry{
		UserID:     &actor.ID,
		Action:     "water_usage.record",
		Resource:   "water_usage",
		ResourceID: &resourceID,
	})
	return FromModel(row), nil
}

// List scopes community members to their own records; staff see
// everything the filter allows.
func (s *service) List(ctx context.Context, actor guard.Actor, filter ListFilter, page pagination.Params) ([]UsageDTO, pagination.Meta, error) {
	if !actor.IsOperational() {
		filter.UserID = &actor.ID
	}

	page = pagination.Normalize(page)
	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list water usage")
	}
	return FromModels(rows), pagination.NewMeta(page, total), nil
}

// Trends buckets consumption per day over the trailing window.
func (s *service) Trends(ctx context.Context, waterPointID *uuid.UUID, days int) ([]DailyTotal, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.repo.DailyTotals(ctx, waterPointID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load usage trends")
	}
	return rows, nil
}
