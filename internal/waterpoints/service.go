package waterpoints

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/internal/audit"
	"github.com/aquasafi/aquasafi-backend/internal/guard"
	"github.com/aquasafi/aquasafi-backend/pkg/db"
	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// Service exposes the water point operations used by the controller.
type Service interface {
	Create(ctx context.Context, actor guard.Actor, dto CreateWaterPointDTO) (*WaterPointDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*WaterPointDTO, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]WaterPointDTO, pagination.Meta, error)
	Update(ctx context.Context, actor guard.Actor, id uuid.UUID, dto UpdateWaterPointDTO) (*WaterPointDTO, error)
	Delete(ctx context.Context, actor guard.Actor, id uuid.UUID) error
	Archive(ctx context.Context, actor guard.Actor, id uuid.UUID) (*WaterPointDTO, error)
	Restore(ctx context.Context, actor guard.Actor, id uuid.UUID) (*WaterPointDTO, error)
	BulkUpdate(ctx context.Context, actor guard.Actor, dto BulkUpdateDTO) (int64, error)
}

type repository interface {
	Create(ctx context.Context, dto CreateWaterPointDTO) (*models.WaterPoint, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.WaterPoint, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.WaterPoint, int64, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateWaterPointDTO) (*models.WaterPoint, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.WaterPointStatus) error
	BulkUpdate(ctx context.Context, dto BulkUpdateDTO) (int64, error)
	CountDependents(ctx context.Context, id uuid.UUID) (DependentCounts, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  repository
	audit audit.Recorder
}

// ServiceParams bundles the dependencies for the water point service.
type ServiceParams struct {
	Repo          repository
	AuditRecorder audit.Recorder
}

// NewService constructs a water point service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("water point repository is required")
	}
	if params.AuditRecorder == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &service{repo: params.Repo, audit: params.AuditRecorder}, nil
}

func (s *service) Create(ctx context.Context, actor guard.Actor, dto CreateWaterPointDTO) (*WaterPointDTO, error) {
	if !actor.IsPrivileged() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}
	if dto.Status != "" && !dto.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	wp, err := s.repo.Create(ctx, dto)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_water_points_region_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a water point with this name already exists in the region")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create water point")
	}

	s.recordAudit(ctx, actor, "water_point.create", wp.ID)
	return FromModel(wp), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*WaterPointDTO, error) {
	wp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "load water point")
	}
	return FromModel(wp), nil
}

func (s *service) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]WaterPointDTO, pagination.Meta, error) {
	page = pagination.Normalize(page)
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list water points")
	}
	return FromModels(rows), pagination.NewMeta(page, total), nil
}

func (s *service) Update(ctx context.Context, actor guard.Actor, id uuid.UUID, dto UpdateWaterPointDTO) (*WaterPointDTO, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "load water point")
	}

	managedBySelf := existing.ManagerID != nil && *existing.ManagerID == actor.ID
	if !actor.IsPrivileged() && !managedBySelf {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the managing user or a supervisor may update this water point")
	}
	if dto.Status != nil && !dto.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	wp, err := s.repo.Update(ctx, id, dto)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_water_points_region_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a water point with this name already exists in the region")
		}
		return nil, notFoundOrInternal(err, "update water point")
	}

	s.recordAudit(ctx, actor, "water_point.update", id)
	return FromModel(wp), nil
}

func (s *service) Delete(ctx context.Context, actor guard.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only admins may delete water points")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOrInternal(err, "load water point")
	}

	counts, err := s.repo.CountDependents(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count water point dependents")
	}
	if counts.Total() > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "water point has dependent records; archive it instead").
			WithDetails(map[string]int64{
				"maintenance_tasks": counts.Tasks,
				"quality_checks":    counts.QualityChecks,
				"usage_records":     counts.UsageRecords,
				"alerts":            counts.Alerts,
			})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOrInternal(err, "delete water point")
	}

	s.recordAudit(ctx, actor, "water_point.delete", id)
	return nil
}

func (s *service) Archive(ctx context.Context, actor guard.Actor, id uuid.UUID) (*WaterPointDTO, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins may archive water points")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "load water point")
	}
	if existing.Status == enums.WaterPointStatusArchived {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "water point is already archived")
	}

	if err := s.repo.SetStatus(ctx, id, enums.WaterPointStatusArchived); err != nil {
		return nil, notFoundOrInternal(err, "archive water point")
	}

	s.recordAudit(ctx, actor, "water_point.archive", id)
	return s.Get(ctx, id)
}

func (s *service) Restore(ctx context.Context, actor guard.Actor, id uuid.UUID) (*WaterPointDTO, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins may restore water points")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "load water point")
	}
	if existing.Status != enums.WaterPointStatusArchived {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only archived water points can be restored")
	}

	if err := s.repo.SetStatus(ctx, id, enums.WaterPointStatusActive); err != nil {
		return nil, notFoundOrInternal(err, "restore water point")
	}

	s.recordAudit(ctx, actor, "water_point.restore", id)
	return s.Get(ctx, id)
}

func (s *service) BulkUpdate(ctx context.Context, actor guard.Actor, dto BulkUpdateDTO) (int64, error) {
	if !actor.IsAdmin() {
		return 0, pkgerrors.New(pkgerrors.CodeForbidden, "only admins may bulk-update water points")
	}
	if len(dto.IDs) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "ids are required")
	}
	if dto.Status != nil && !dto.Status.IsValid() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	if dto.Status == nil && !dto.ManagerID.Valid {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}

	affected, err := s.repo.BulkUpdate(ctx, dto)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "bulk update water points")
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:   &actor.ID,
		Action:   "water_point.bulk_update",
		Resource: "water_point",
		Details:  map[string]any{"ids": dto.IDs, "affected": affected},
	})
	return affected, nil
}

func (s *service) recordAudit(ctx context.Context, actor guard.Actor, action string, id uuid.UUID) {
	resourceID := id.String()
	s.audit.Record(ctx, audit.Entry{
		UserID:     &actor.ID,
		Action:     action,
		Resource:   "water_point",
		ResourceID: &resourceID,
	})
}

func notFoundOrInternal(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "water point not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
}
