package usage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aquasafi/aquasafi-backend/internal/audit"
	"github.com/aquasafi/aquasafi-backend/internal/guard"
	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

type fakeRepo struct {
	created    *models.WaterUsage
	rows       []models.WaterUsage
	lastFilter ListFilter
	trendRows  []DailyTotal
	trendSince time.Time
}

func (f *fakeRepo) Create(ctx context.Context, row *models.WaterUsage) error {
	row.ID = uuid.New()
	f.created = row
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.WaterUsage, int64, error) {
	f.lastFilter = filter
	return f.rows, int64(len(f.rows)), nil
}

func (f *fakeRepo) DailyTotals(ctx context.Context, waterPointID *uuid.UUID, since time.Time) ([]DailyTotal, error) {
	f.trendSince = since
	return f.trendRows, nil
}

func newTestService(t *testing.T, repo *fakeRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, AuditRecorder: audit.Noop()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRecordForcesCommunityMemberIdentity(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)
	member := guard.Actor{ID: uuid.New(), Role: enums.UserRoleCommunityMember}
	someoneElse := uuid.New()

	out, err := svc.Record(context.Background(), member, RecordUsageDTO{
		WaterPointID: uuid.New(),
		UserID:       &someoneElse,
		Amount:       150,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if out.UserID == nil || *out.UserID != member.ID {
		t.Fatal("expected usage attributed to the recording member")
	}
}

func TestRecordAllowsStaffToRecordForOthers(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)
	tech := guard.Actor{ID: uuid.New(), Role: enums.UserRoleTechnician}
	customer := uuid.New()

	out, err := svc.Record(context.Background(), tech, RecordUsageDTO{
		WaterPointID: uuid.New(),
		UserID:       &customer,
		Amount:       80,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if out.UserID == nil || *out.UserID != customer {
		t.Fatal("expected usage attributed to the named user")
	}
	if out.RecordedAt.IsZero() {
		t.Fatal("expected recorded_at default stamp")
	}
}

func TestRecordRejectsNonPositiveAmount(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	_, err := svc.Record(context.Background(), guard.Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}, RecordUsageDTO{
		WaterPointID: uuid.New(),
		Amount:       0,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestListScopesCommunityMembers(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)
	member := guard.Actor{ID: uuid.New(), Role: enums.UserRoleCommunityMember}

	if _, _, err := svc.List(context.Background(), member, ListFilter{}, pagination.Params{}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastFilter.UserID == nil || *repo.lastFilter.UserID != member.ID {
		t.Fatal("expected member listing scoped to self")
	}

	supervisor := guard.Actor{ID: uuid.New(), Role: enums.UserRoleSupervisor}
	if _, _, err := svc.List(context.Background(), supervisor, ListFilter{}, pagination.Params{}); err != nil {
		t.Fatalf("list as supervisor: %v", err)
	}
	if repo.lastFilter.UserID != nil {
		t.Fatal("expected unrestricted listing for supervisor")
	}
}

func TestTrendsDefaultsWindow(t *testing.T) {
	repo := &fakeRepo{trendRows: []DailyTotal{{Total: 400}}}
	svc := newTestService(t, repo)

	rows, err := svc.Trends(context.Background(), nil, 0)
	if err != nil {
		t.Fatalf("trends: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(rows))
	}
	expected := time.Now().UTC().AddDate(0, 0, -30)
	if repo.trendSince.After(expected.Add(time.Minute)) || repo.trendSince.Before(expected.Add(-time.Minute)) {
		t.Fatalf("expected 30-day default window, got since=%v", repo.trendSince)
	}
}
