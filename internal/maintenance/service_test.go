package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/internal/audit"
	"github.com/aquasafi/aquasafi-backend/internal/guard"
	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
	"github.com/aquasafi/aquasafi-backend/pkg/types"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeTaskRepo struct {
	task       *models.MaintenanceTask
	rows       []models.MaintenanceTask
	lastFilter ListFilter
	updates    map[string]any
}

func (f *fakeTaskRepo) Create(ctx context.Context, dto CreateTaskDTO) (*models.MaintenanceTask, error) {
	task := dto.ToModel()
	task.ID = uuid.New()
	f.task = task
	return task, nil
}

func (f *fakeTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceTask, error) {
	if f.task == nil || f.task.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.task, nil
}

func (f *fakeTaskRepo) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.MaintenanceTask, int64, error) {
	f.lastFilter = filter
	return f.rows, int64(len(f.rows)), nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.MaintenanceTask, error) {
	if f.task == nil || f.task.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	f.updates = updates
	if status, ok := updates["status"].(enums.TaskStatus); ok {
		f.task.Status = status
	}
	if completed, ok := updates["completed_date"].(time.Time); ok {
		f.task.CompletedDate = &completed
	}
	return f.task, nil
}

type fakePointRepo struct {
	point        *models.WaterPoint
	stampedLast  *time.Time
	stampedPoint uuid.UUID
}

func (f *fakePointRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.WaterPoint, error) {
	if f.point == nil || f.point.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.point, nil
}

func (f *fakePointRepo) UpdateMaintenanceDates(ctx context.Context, id uuid.UUID, last time.Time, next *time.Time) error {
	f.stampedLast = &last
	f.stampedPoint = id
	return nil
}

func newTestService(t *testing.T, tasks *fakeTaskRepo, points *fakePointRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		TxRunner: stubTxRunner{},
		TaskRepo: tasks,
		TaskRepoFactory: func(tx *gorm.DB) taskRepository {
			return tasks
		},
		PointRepoFactory: func(tx *gorm.DB) waterPointRepository {
			return points
		},
		AuditRecorder: audit.Noop(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func actorWithRole(role enums.UserRole) guard.Actor {
	return guard.Actor{ID: uuid.New(), Role: role}
}

func TestCreateRequiresSupervisor(t *testing.T) {
	svc := newTestService(t, &fakeTaskRepo{}, &fakePointRepo{})

	_, err := svc.Create(context.Background(), actorWithRole(enums.UserRoleTechnician), CreateTaskDTO{
		WaterPointID: uuid.New(),
		Title:        "Replace pump seal",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for technician, got %v", err)
	}
}

func TestCreateDefaultsPendingMediumPriority(t *testing.T) {
	point := &models.WaterPoint{ID: uuid.New(), Status: enums.WaterPointStatusActive}
	tasks := &fakeTaskRepo{}
	svc := newTestService(t, tasks, &fakePointRepo{point: point})

	out, err := svc.Create(context.Background(), actorWithRole(enums.UserRoleSupervisor), CreateTaskDTO{
		WaterPointID: point.ID,
		Title:        "Replace pump seal",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.Status != enums.TaskStatusPending {
		t.Fatalf("expected pending default, got %s", out.Status)
	}
	if out.Priority != enums.TaskPriorityMedium {
		t.Fatalf("expected medium default, got %s", out.Priority)
	}
}

func TestCreateRejectsArchivedPoint(t *testing.T) {
	point := &models.WaterPoint{ID: uuid.New(), Status: enums.WaterPointStatusArchived}
	svc := newTestService(t, &fakeTaskRepo{}, &fakePointRepo{point: point})

	_, err := svc.Create(context.Background(), actorWithRole(enums.UserRoleAdmin), CreateTaskDTO{
		WaterPointID: point.ID,
		Title:        "Replace pump seal",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
}

func TestListScopesTechniciansToOwnTasks(t *testing.T) {
	tasks := &fakeTaskRepo{}
	svc := newTestService(t, tasks, &fakePointRepo{})
	tech := actorWithRole(enums.UserRoleTechnician)

	if _, _, err := svc.List(context.Background(), tech, ListFilter{}, pagination.Params{}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if tasks.lastFilter.TechnicianID == nil || *tasks.lastFilter.TechnicianID != tech.ID {
		t.Fatal("expected technician filter to be forced to the actor")
	}

	// A supervisor's filter passes through untouched.
	if _, _, err := svc.List(context.Background(), actorWithRole(enums.UserRoleSupervisor), ListFilter{}, pagination.Params{}); err != nil {
		t.Fatalf("list as supervisor: %v", err)
	}
	if tasks.lastFilter.TechnicianID != nil {
		t.Fatal("expected unrestricted listing for supervisor")
	}

	if _, _, err := svc.List(context.Background(), actorWithRole(enums.UserRoleCommunityMember), ListFilter{}, pagination.Params{}); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for community member, got %v", err)
	}
}

func TestUpdateOwnership(t *testing.T) {
	tech := actorWithRole(enums.UserRoleTechnician)
	task := &models.MaintenanceTask{
		ID:           uuid.New(),
		WaterPointID: uuid.New(),
		Title:        "Flush pipes",
		Status:       enums.TaskStatusPending,
		TechnicianID: &tech.ID,
	}
	tasks := &fakeTaskRepo{task: task}
	svc := newTestService(t, tasks, &fakePointRepo{})
	ctx := context.Background()

	if _, err := svc.Update(ctx, actorWithRole(enums.UserRoleTechnician), task.ID, UpdateTaskDTO{}); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for unassigned technician, got %v", err)
	}
	if _, err := svc.Update(ctx, tech, task.ID, UpdateTaskDTO{}); err != nil {
		t.Fatalf("assigned technician should be allowed: %v", err)
	}

	// Reassignment stays a supervisor decision even for the assignee.
	other := uuid.New()
	reassign := UpdateTaskDTO{TechnicianID: types.NullableUUID{Valid: true, Value: &other}}
	if _, err := svc.Update(ctx, tech, task.ID, reassign); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for technician reassigning, got %v", err)
	}
	if _, err := svc.Update(ctx, actorWithRole(enums.UserRoleAdmin), task.ID, reassign); err != nil {
		t.Fatalf("admin reassignment should be allowed: %v", err)
	}
}

func TestCompletingTaskStampsDates(t *testing.T) {
	tech := actorWithRole(enums.UserRoleTechnician)
	pointID := uuid.New()
	task := &models.MaintenanceTask{
		ID:           uuid.New(),
		WaterPointID: pointID,
		Title:        "Flush pipes",
		Status:       enums.TaskStatusInProgress,
		TechnicianID: &tech.ID,
	}
	tasks := &fakeTaskRepo{task: task}
	points := &fakePointRepo{}
	svc := newTestService(t, tasks, points)

	completed := enums.TaskStatusCompleted
	out, err := svc.Update(context.Background(), tech, task.ID, UpdateTaskDTO{Status: &completed})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out.CompletedDate == nil {
		t.Fatal("expected completed date stamp")
	}
	if points.stampedLast == nil {
		t.Fatal("expected water point maintenance date stamp")
	}
	if points.stampedPoint != pointID {
		t.Fatal("stamped the wrong water point")
	}

	// Completing again leaves the original stamp alone.
	points.stampedLast = nil
	if _, err := svc.Update(context.Background(), tech, task.ID, UpdateTaskDTO{Status: &completed}); err != nil {
		t.Fatalf("idempotent complete: %v", err)
	}
	if points.stampedLast != nil {
		t.Fatal("expected no second maintenance date stamp")
	}
}
