package waterpoints

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/internal/audit"
	"github.com/aquasafi/aquasafi-backend/internal/guard"
	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

type fakeRepo struct {
	createFn          func(ctx context.Context, dto CreateWaterPointDTO) (*models.WaterPoint, error)
	findByIDFn        func(ctx context.Context, id uuid.UUID) (*models.WaterPoint, error)
	listFn            func(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.WaterPoint, int64, error)
	updateFn          func(ctx context.Context, id uuid.UUID, dto UpdateWaterPointDTO) (*models.WaterPoint, error)
	setStatusFn       func(ctx context.Context, id uuid.UUID, status enums.WaterPointStatus) error
	bulkUpdateFn      func(ctx context.Context, dto BulkUpdateDTO) (int64, error)
	countDependentsFn func(ctx context.Context, id uuid.UUID) (DependentCounts, error)
	deleteFn          func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeRepo) Create(ctx context.Context, dto CreateWaterPointDTO) (*models.WaterPoint, error) {
	return f.createFn(ctx, dto)
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.WaterPoint, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.WaterPoint, int64, error) {
	return f.listFn(ctx, filter, page)
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, dto UpdateWaterPointDTO) (*models.WaterPoint, error) {
	return f.updateFn(ctx, id, dto)
}

func (f *fakeRepo) SetStatus(ctx context.Context, id uuid.UUID, status enums.WaterPointStatus) error {
	return f.setStatusFn(ctx, id, status)
}

func (f *fakeRepo) BulkUpdate(ctx context.Context, dto BulkUpdateDTO) (int64, error) {
	return f.bulkUpdateFn(ctx, dto)
}

func (f *fakeRepo) CountDependents(ctx context.Context, id uuid.UUID) (DependentCounts, error) {
	return f.countDependentsFn(ctx, id)
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return f.deleteFn(ctx, id)
}

func newTestService(t *testing.T, repo *fakeRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, AuditRecorder: audit.Noop()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func adminActor() guard.Actor {
	return guard.Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}
}

func supervisorActor() guard.Actor {
	return guard.Actor{ID: uuid.New(), Role: enums.UserRoleSupervisor}
}

func memberActor() guard.Actor {
	return guard.Actor{ID: uuid.New(), Role: enums.UserRoleCommunityMember}
}

func TestCreateRequiresPrivilegedRole(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	_, err := svc.Create(context.Background(), memberActor(), CreateWaterPointDTO{
		Name:   "Borehole 7",
		Region: "Nakuru",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestCreateDefaultsToActiveStatus(t *testing.T) {
	var stored *models.WaterPoint
	repo := &fakeRepo{
		createFn: func(ctx context.Context, dto CreateWaterPointDTO) (*models.WaterPoint, error) {
			stored = dto.ToModel()
			stored.ID = uuid.New()
			return stored, nil
		},
	}
	svc := newTestService(t, repo)

	out, err := svc.Create(context.Background(), supervisorActor(), CreateWaterPointDTO{
		Name:   "Borehole 7",
		Region: "Nakuru",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.Status != enums.WaterPointStatusActive {
		t.Fatalf("expected active default, got %s", out.Status)
	}
	if stored.Name != "Borehole 7" || stored.Region != "Nakuru" {
		t.Fatalf("unexpected stored row %+v", stored)
	}
}

func TestCreateMapsDuplicateNameToConflict(t *testing.T) {
	repo := &fakeRepo{
		createFn: func(ctx context.Context, dto CreateWaterPointDTO) (*models.WaterPoint, error) {
			return nil, errDuplicateRegionName{}
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), adminActor(), CreateWaterPointDTO{
		Name:   "Borehole 7",
		Region: "Nakuru",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

type errDuplicateRegionName struct{}

func (errDuplicateRegionName) Error() string {
	return `duplicate key value violates unique constraint "idx_water_points_region_name"`
}

func TestUpdateOwnership(t *testing.T) {
	manager := memberActor()
	pointID := uuid.New()
	point := &models.WaterPoint{
		ID:        pointID,
		Name:      "Kiosk 3",
		Region:    "Kisumu",
		Status:    enums.WaterPointStatusActive,
		ManagerID: &manager.ID,
	}
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.WaterPoint, error) {
			return point, nil
		},
		updateFn: func(ctx context.Context, id uuid.UUID, dto UpdateWaterPointDTO) (*models.WaterPoint, error) {
			return point, nil
		},
	}
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.Update(ctx, memberActor(), pointID, UpdateWaterPointDTO{}); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for stranger, got %v", err)
	}
	if _, err := svc.Update(ctx, manager, pointID, UpdateWaterPointDTO{}); err != nil {
		t.Fatalf("managing user should be allowed: %v", err)
	}
	if _, err := svc.Update(ctx, supervisorActor(), pointID, UpdateWaterPointDTO{}); err != nil {
		t.Fatalf("supervisor should be allowed: %v", err)
	}
}

func TestDeleteBlockedByDependents(t *testing.T) {
	pointID := uuid.New()
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.WaterPoint, error) {
			return &models.WaterPoint{ID: pointID, Status: enums.WaterPointStatusActive}, nil
		},
		countDependentsFn: func(ctx context.Context, id uuid.UUID) (DependentCounts, error) {
			return DependentCounts{Tasks: 2, UsageRecords: 5}, nil
		},
	}
	svc := newTestService(t, repo)

	err := svc.Delete(context.Background(), adminActor(), pointID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected CONFLICT while dependents exist, got %v", err)
	}
}

func TestDeleteBlockedByAlertsAlone(t *testing.T) {
	pointID := uuid.New()
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.WaterPoint, error) {
			return &models.WaterPoint{ID: pointID, Status: enums.WaterPointStatusActive}, nil
		},
		countDependentsFn: func(ctx context.Context, id uuid.UUID) (DependentCounts, error) {
			return DependentCounts{Alerts: 3}, nil
		},
	}
	svc := newTestService(t, repo)

	err := svc.Delete(context.Background(), adminActor(), pointID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected CONFLICT while alerts reference the point, got %v", err)
	}
}

func TestDeleteRequiresAdmin(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	err := svc.Delete(context.Background(), supervisorActor(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for supervisor, got %v", err)
	}
}

func TestDeleteSucceedsWithoutDependents(t *testing.T) {
	pointID := uuid.New()
	deleted := false
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.WaterPoint, error) {
			return &models.WaterPoint{ID: pointID, Status: enums.WaterPointStatusArchived}, nil
		},
		countDependentsFn: func(ctx context.Context, id uuid.UUID) (DependentCounts, error) {
			return DependentCounts{}, nil
		},
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	svc := newTestService(t, repo)

	if err := svc.Delete(context.Background(), adminActor(), pointID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected repo delete call")
	}
}

func TestArchiveLifecycle(t *testing.T) {
	pointID := uuid.New()
	status := enums.WaterPointStatusActive
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.WaterPoint, error) {
			return &models.WaterPoint{ID: pointID, Status: status}, nil
		},
		setStatusFn: func(ctx context.Context, id uuid.UUID, next enums.WaterPointStatus) error {
			status = next
			return nil
		},
	}
	svc := newTestService(t, repo)
	ctx := context.Background()
	admin := adminActor()

	out, err := svc.Archive(ctx, admin, pointID)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if out.Status != enums.WaterPointStatusArchived {
		t.Fatalf("expected archived, got %s", out.Status)
	}

	// Archiving twice is an illegal transition.
	if _, err := svc.Archive(ctx, admin, pointID); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}

	out, err = svc.Restore(ctx, admin, pointID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if out.Status != enums.WaterPointStatusActive {
		t.Fatalf("expected active after restore, got %s", out.Status)
	}

	// Restoring a non-archived point is equally illegal.
	if _, err := svc.Restore(ctx, admin, pointID); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.WaterPoint, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.Get(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestBulkUpdateValidation(t *testing.T) {
	repo := &fakeRepo{
		bulkUpdateFn: func(ctx context.Context, dto BulkUpdateDTO) (int64, error) {
			return int64(len(dto.IDs)), nil
		},
	}
	svc := newTestService(t, repo)
	ctx := context.Background()
	maintenance := enums.WaterPointStatusMaintenance

	if _, err := svc.BulkUpdate(ctx, supervisorActor(), BulkUpdateDTO{IDs: []uuid.UUID{uuid.New()}, Status: &maintenance}); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for supervisor, got %v", err)
	}
	if _, err := svc.BulkUpdate(ctx, adminActor(), BulkUpdateDTO{Status: &maintenance}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for empty ids, got %v", err)
	}
	if _, err := svc.BulkUpdate(ctx, adminActor(), BulkUpdateDTO{IDs: []uuid.UUID{uuid.New()}}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for empty change set, got %v", err)
	}

	affected, err := svc.BulkUpdate(ctx, adminActor(), BulkUpdateDTO{
		IDs:    []uuid.UUID{uuid.New(), uuid.New()},
		Status: &maintenance,
	})
	if err != nil {
		t.Fatalf("bulk update: %v", err)
	}
	if affected != 2 {
		t.Fatalf("expected 2 affected rows, got %d", affected)
	}
}
