package monitoring

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/pkg/config"
	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
)

type fakePointRepo struct {
	points      map[uuid.UUID]*models.WaterPoint
	byStatus    map[enums.WaterPointStatus]int64
	byStatusErr error
	avgQuality  float64
	avgErr      error
}

func (f *fakePointRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.WaterPoint, error) {
	point, ok := f.points[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return point, nil
}

func (f *fakePointRepo) ListByStatus(ctx context.Context, status enums.WaterPointStatus) ([]models.WaterPoint, error) {
	var rows []models.WaterPoint
	for _, point := range f.points {
		if point.Status == status {
			rows = append(rows, *point)
		}
	}
	return rows, nil
}

func (f *fakePointRepo) CountByStatus(ctx context.Context) (map[enums.WaterPointStatus]int64, error) {
	return f.byStatus, f.byStatusErr
}

func (f *fakePointRepo) AverageQualityScore(ctx context.Context) (float64, error) {
	return f.avgQuality, f.avgErr
}

type fakeTaskRepo struct {
	overdue    int64
	overdueErr error
}

func (f *fakeTaskRepo) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	return f.overdue, f.overdueErr
}

type fakeAlertRepo struct {
	active      int64
	critical    int64
	criticalErr error
	withAlerts  map[uuid.UUID][]models.Alert
}

func (f *fakeAlertRepo) CountActive(ctx context.Context) (int64, error) {
	return f.active, nil
}

func (f *fakeAlertRepo) CountActiveByPriority(ctx context.Context, priority enums.AlertPriority) (int64, error) {
	return f.critical, f.criticalErr
}

func (f *fakeAlertRepo) HasActiveForWaterPoint(ctx context.Context, waterPointID uuid.UUID) (bool, error) {
	return len(f.withAlerts[waterPointID]) > 0, nil
}

func (f *fakeAlertRepo) ListActiveForWaterPoints(ctx context.Context, waterPointIDs []uuid.UUID) (map[uuid.UUID][]models.Alert, error) {
	return f.withAlerts, nil
}

type fakeQualityRepo struct {
	latest map[uuid.UUID]*models.QualityCheck
	unsafe int64
}

func (f *fakeQualityRepo) LatestForWaterPoint(ctx context.Context, waterPointID uuid.UUID) (*models.QualityCheck, error) {
	check, ok := f.latest[waterPointID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return check, nil
}

func (f *fakeQualityRepo) CountUnsafeSince(ctx context.Context, cutoff *time.Time) (int64, error) {
	return f.unsafe, nil
}

type fakeUsageRepo struct {
	total float64
}

func (f *fakeUsageRepo) TotalAmountSince(ctx context.Context, cutoff *time.Time) (float64, error) {
	return f.total, nil
}

func defaultHealthConfig() config.HealthConfig {
	return config.HealthConfig{
		AvailabilityWeight: 0.3,
		QualityWeight:      0.3,
		MaintenanceWeight:  0.2,
		AlertWeight:        0.2,
		OverduePenalty:     10,
		CriticalPenalty:    20,
	}
}

type testDeps struct {
	points  *fakePointRepo
	tasks   *fakeTaskRepo
	alerts  *fakeAlertRepo
	quality *fakeQualityRepo
	usage   *fakeUsageRepo
}

func newTestDeps() *testDeps {
	return &testDeps{
		points: &fakePointRepo{
			points:   map[uuid.UUID]*models.WaterPoint{},
			byStatus: map[enums.WaterPointStatus]int64{},
		},
		tasks:   &fakeTaskRepo{},
		alerts:  &fakeAlertRepo{withAlerts: map[uuid.UUID][]models.Alert{}},
		quality: &fakeQualityRepo{latest: map[uuid.UUID]*models.QualityCheck{}},
		usage:   &fakeUsageRepo{},
	}
}

func newTestService(t *testing.T, deps *testDeps) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Points:  deps.points,
		Tasks:   deps.tasks,
		Alerts:  deps.alerts,
		Quality: deps.quality,
		Usage:   deps.usage,
		Sensors: NewSimulatedReader(),
		Health:  defaultHealthConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSystemHealthPerfectSystemScoresHundred(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps()
	deps.points.byStatus = map[enums.WaterPointStatus]int64{enums.WaterPointStatusActive: 10}
	deps.points.avgQuality = 100

	health, err := newTestService(t, deps).SystemHealth(ctx)
	if err != nil {
		t.Fatalf("system health: %v", err)
	}
	if !almostEqual(health.Score, 100) {
		t.Fatalf("expected score 100, got %.4f", health.Score)
	}
	if !almostEqual(health.Availability, 100) {
		t.Fatalf("expected availability 100, got %.4f", health.Availability)
	}
}

func TestSystemHealthBlendIsExact(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps()
	deps.points.byStatus = map[enums.WaterPointStatus]int64{
		enums.WaterPointStatusActive:      8,
		enums.WaterPointStatusMaintenance: 1,
		enums.WaterPointStatusOffline:     1,
	}
	deps.points.avgQuality = 90
	deps.tasks.overdue = 3
	deps.alerts.critical = 2

	health, err := newTestService(t, deps).SystemHealth(ctx)
	if err != nil {
		t.Fatalf("system health: %v", err)
	}

	// 0.3*80 + 0.3*90 + 0.2*70 + 0.2*60 = 77
	if !almostEqual(health.Score, 77) {
		t.Fatalf("expected score 77, got %.4f", health.Score)
	}
	if !almostEqual(health.MaintenanceScore, 70) {
		t.Fatalf("expected maintenance score 70, got %.4f", health.MaintenanceScore)
	}
	if !almostEqual(health.AlertScore, 60) {
		t.Fatalf("expected alert score 60, got %.4f", health.AlertScore)
	}
}

func TestSystemHealthNoActivePointsZeroesAvailability(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps()
	deps.points.byStatus = map[enums.WaterPointStatus]int64{enums.WaterPointStatusOffline: 10}
	deps.points.avgQuality = 100

	health, err := newTestService(t, deps).SystemHealth(ctx)
	if err != nil {
		t.Fatalf("system health: %v", err)
	}
	if !almostEqual(health.Availability, 0) {
		t.Fatalf("expected availability 0, got %.4f", health.Availability)
	}
	// 0 + 0.3*100 + 0.2*100 + 0.2*100 = 70
	if !almostEqual(health.Score, 70) {
		t.Fatalf("expected score 70, got %.4f", health.Score)
	}
}

func TestSystemHealthEmptySystemHasZeroAvailability(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps()

	health, err := newTestService(t, deps).SystemHealth(ctx)
	if err != nil {
		t.Fatalf("system health: %v", err)
	}
	if !almostEqual(health.Availability, 0) {
		t.Fatalf("expected availability 0 with no water points, got %.4f", health.Availability)
	}
	if health.TotalWaterPoints != 0 || health.ActiveWaterPoints != 0 {
		t.Fatalf("expected zero point counts, got %d/%d", health.ActiveWaterPoints, health.TotalWaterPoints)
	}
	// 0 + 0 + 0.2*100 + 0.2*100 = 40
	if !almostEqual(health.Score, 40) {
		t.Fatalf("expected score 40, got %.4f", health.Score)
	}
}

func TestSystemHealthPenaltiesFloorAtZero(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps()
	deps.points.byStatus = map[enums.WaterPointStatus]int64{enums.WaterPointStatusActive: 1}
	deps.points.avgQuality = 100
	deps.tasks.overdue = 50
	deps.alerts.critical = 50

	health, err := newTestService(t, deps).SystemHealth(ctx)
	if err != nil {
		t.Fatalf("system health: %v", err)
	}
	if health.MaintenanceScore != 0 || health.AlertScore != 0 {
		t.Fatalf("expected floored component scores, got %.1f/%.1f", health.MaintenanceScore, health.AlertScore)
	}
}

func TestSystemHealthCombinesPartialFailures(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps()
	deps.points.byStatusErr = fmt.Errorf("status query timed out")
	deps.alerts.criticalErr = fmt.Errorf("alerts table locked")

	_, err := newTestService(t, deps).SystemHealth(ctx)
	if !pkgerrors.IsCode(err, pkgerrors.CodeInternal) {
		t.Fatalf("expected INTERNAL, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "status query timed out") || !strings.Contains(msg, "alerts table locked") {
		t.Fatalf("expected both failures in the combined error, got %q", msg)
	}
}

func TestStatusClassifiesEachPoint(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps()

	healthy := &models.WaterPoint{ID: uuid.New(), Name: "Borehole 1", Region: "Kisumu", Status: enums.WaterPointStatusActive}
	offline := &models.WaterPoint{ID: uuid.New(), Name: "Kiosk 4", Region: "Kisumu", Status: enums.WaterPointStatusOffline}
	alerted := &models.WaterPoint{ID: uuid.New(), Name: "Well 9", Region: "Nakuru", Status: enums.WaterPointStatusActive}
	for _, p := range []*models.WaterPoint{healthy, offline, alerted} {
		deps.points.points[p.ID] = p
	}
	deps.alerts.withAlerts[alerted.ID] = []models.Alert{{ID: uuid.New()}}

	statuses, err := newTestService(t, deps).Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(statuses) != 3 {
		t.Fatalf("expected 3 points, got %d", len(statuses))
	}

	byID := map[uuid.UUID]PointStatusDTO{}
	for _, dto := range statuses {
		byID[dto.WaterPointID] = dto
	}
	if byID[healthy.ID].Status != enums.OverallStatusNormal {
		t.Fatalf("expected healthy point normal, got %s", byID[healthy.ID].Status)
	}
	if byID[offline.ID].Status != enums.OverallStatusOffline {
		t.Fatalf("expected offline point offline, got %s", byID[offline.ID].Status)
	}
	if byID[alerted.ID].Status != enums.OverallStatusWarning {
		t.Fatalf("expected alerted point warning, got %s", byID[alerted.ID].Status)
	}
	if byID[alerted.ID].ActiveAlerts != 1 {
		t.Fatalf("expected one active alert, got %d", byID[alerted.ID].ActiveAlerts)
	}
}

func TestRealtimeUnknownPointIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newTestDeps())

	if _, err := svc.Realtime(ctx, uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestRealtimeReportsReadingsAndDevice(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps()
	point := &models.WaterPoint{ID: uuid.New(), Name: "Borehole 1", Region: "Kisumu", Status: enums.WaterPointStatusActive}
	deps.points.points[point.ID] = point

	view, err := newTestService(t, deps).Realtime(ctx, point.ID)
	if err != nil {
		t.Fatalf("realtime: %v", err)
	}
	if len(view.Readings) != len(enums.SensorChannels) {
		t.Fatalf("expected %d readings, got %d", len(enums.SensorChannels), len(view.Readings))
	}
	if view.Status != enums.OverallStatusNormal {
		t.Fatalf("expected a quiet point to read normal, got %s", view.Status)
	}
	if view.Device.Connectivity == "" {
		t.Fatal("expected device telemetry to be populated")
	}
}
