package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/internal/audit"
	"github.com/aquasafi/aquasafi-backend/internal/guard"
	"github.com/aquasafi/aquasafi-backend/internal/waterpoints"
	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// Service exposes the maintenance task operations used by the controller.
type Service interface {
	Create(ctx context.Context, actor guard.Actor, dto CreateTaskDTO) (*TaskDTO, error)
	Get(ctx context.Context, actor guard.Actor, id uuid.UUID) (*TaskDTO, error)
	List(ctx context.Context, actor guard.Actor, filter ListFilter, page pagination.Params) ([]TaskDTO, pagination.Meta, error)
	Update(ctx context.Context, actor guard.Actor, id uuid.UUID, dto UpdateTaskDTO) (*TaskDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type taskRepository interface {
	Create(ctx context.Context, dto CreateTaskDTO) (*models.MaintenanceTask, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceTask, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.MaintenanceTask, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.MaintenanceTask, error)
}

type waterPointRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.WaterPoint, error)
	UpdateMaintenanceDates(ctx context.Context, id uuid.UUID, last time.Time, next *time.Time) error
}

type service struct {
	tx           txRunner
	tasks        taskRepository
	taskFactory  func(tx *gorm.DB) taskRepository
	pointFactory func(tx *gorm.DB) waterPointRepository
	audit        audit.Recorder
}

// ServiceParams bundles the dependencies for the maintenance service.
type ServiceParams struct {
	TxRunner         txRunner
	TaskRepo         taskRepository
	TaskRepoFactory  func(tx *gorm.DB) taskRepository
	PointRepoFactory func(tx *gorm.DB) waterPointRepository
	AuditRecorder    audit.Recorder
}

// NewService constructs a maintenance service.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.TaskRepo == nil {
		return nil, fmt.Errorf("task repository is required")
	}
	if params.AuditRecorder == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	taskFactory := params.TaskRepoFactory
	if taskFactory == nil {
		taskFactory = func(tx *gorm.DB) taskRepository {
			return NewRepository(tx)
		}
	}
	pointFactory := params.PointRepoFactory
	if pointFactory == nil {
		pointFactory = func(tx *gorm.DB) waterPointRepository {
			return waterpoints.NewRepository(tx)
		}
	}
	return &service{
		tx:           params.TxRunner,
		tasks:        params.TaskRepo,
		taskFactory:  taskFactory,
		pointFactory: pointFactory,
		audit:        params.AuditRecorder,
	}, nil
}

func (s *service) Create(ctx context.Context, actor guard.Actor, dto CreateTaskDTO) (*TaskDTO, error) {
	if !actor.IsPrivileged() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins and supervisors may schedule maintenance")
	}
	if dto.Priority != "" && !dto.Priority.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid priority")
	}

	var task *models.MaintenanceTask
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		point, err := s.pointFactory(tx).FindByID(ctx, dto.WaterPointID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "water point not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load water point")
		}
		if point.Status == enums.WaterPointStatusArchived {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot schedule work against an archived water point")
		}

		task, err = s.taskFactory(tx).Create(ctx, dto)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create maintenance task")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actor, "maintenance_task.create", task.ID)
	return FromModel(task), nil
}

func (s *service) Get(ctx context.Context, actor guard.Actor, id uuid.UUID) (*TaskDTO, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, taskNotFoundOrInternal(err, "load maintenance task")
	}
	if !canSeeTask(actor, task) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}
	return FromModel(task), nil
}

// List scopes technicians to their own assignments; admins and
// supervisors see everything.
func (s *service) List(ctx context.Context, actor guard.Actor, filter ListFilter, page pagination.Params) ([]TaskDTO, pagination.Meta, error) {
	switch {
	case actor.IsPrivileged():
		// unrestricted
	case actor.Role == enums.UserRoleTechnician:
		filter.TechnicianID = &actor.ID
	default:
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}

	page = pagination.Normalize(page)
	rows, total, err := s.tasks.List(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list maintenance tasks")
	}
	return FromModels(rows), pagination.NewMeta(page, total), nil
}

func (s *service) Update(ctx context.Context, actor guard.Actor, id uuid.UUID, dto UpdateTaskDTO) (*TaskDTO, error) {
	if dto.Priority != nil && !dto.Priority.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid priority")
	}
	if dto.Status != nil && !dto.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	var updated *models.MaintenanceTask
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		tasks := s.taskFactory(tx)
		existing, err := tasks.FindByID(ctx, id)
		if err != nil {
			return taskNotFoundOrInternal(err, "load maintenance task")
		}

		assignedToSelf := existing.TechnicianID != nil && *existing.TechnicianID == actor.ID
		if !actor.IsPrivileged() && !assignedToSelf {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the assigned technician or a supervisor may update this task")
		}
		// Reassignment is a supervisor decision.
		if dto.TechnicianID.Valid && !actor.IsPrivileged() {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only admins and supervisors may reassign tasks")
		}

		updates := dto.changes()
		completing := dto.Status != nil &&
			*dto.Status == enums.TaskStatusCompleted &&
			existing.Status != enums.TaskStatusCompleted
		var completedAt time.Time
		if completing {
			completedAt = time.Now().UTC()
			updates["completed_date"] = completedAt
		}

		updated, err = tasks.Update(ctx, id, updates)
		if err != nil {
			return taskNotFoundOrInternal(err, "update maintenance task")
		}

		if completing {
			err := s.pointFactory(tx).UpdateMaintenanceDates(ctx, existing.WaterPointID, completedAt, nil)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stamp water point maintenance dates")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actor, "maintenance_task.update", id)
	return FromModel(updated), nil
}

func canSeeTask(actor guard.Actor, task *models.MaintenanceTask) bool {
	if actor.IsPrivileged() {
		return true
	}
	return task.TechnicianID != nil && *task.TechnicianID == actor.ID
}

func (s *service) recordAudit(ctx context.Context, actor guard.Actor, action string, id uuid.UUID) {
	resourceID := id.String()
	s.audit.Record(ctx, audit.Entry{
		UserID:     &actor.ID,
		Action:     action,
		Resource:   "maintenance_task",
		ResourceID: &resourceID,
	})
}

func taskNotFoundOrInternal(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "maintenance task not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
}
