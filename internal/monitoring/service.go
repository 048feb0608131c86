package monitoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/pkg/config"
	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
)

// Service aggregates live system health out of the domain repos.
type Service interface {
	SystemHealth(ctx context.Context) (*SystemHealthDTO, error)
	Overview(ctx context.Context) (*OverviewDTO, error)
	Status(ctx context.Context) ([]PointStatusDTO, error)
	Realtime(ctx context.Context, waterPointID uuid.UUID) (*RealtimeDTO, error)
}

type waterPointRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.WaterPoint, error)
	ListByStatus(ctx context.Context, status enums.WaterPointStatus) ([]models.WaterPoint, error)
	CountByStatus(ctx context.Context) (map[enums.WaterPointStatus]int64, error)
	AverageQualityScore(ctx context.Context) (float64, error)
}

type taskRepository interface {
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
}

type alertRepository interface {
	CountActive(ctx context.Context) (int64, error)
	CountActiveByPriority(ctx context.Context, priority enums.AlertPriority) (int64, error)
	HasActiveForWaterPoint(ctx context.Context, waterPointID uuid.UUID) (bool, error)
	ListActiveForWaterPoints(ctx context.Context, waterPointIDs []uuid.UUID) (map[uuid.UUID][]models.Alert, error)
}

type qualityRepository interface {
	LatestForWaterPoint(ctx context.Context, waterPointID uuid.UUID) (*models.QualityCheck, error)
	CountUnsafeSince(ctx context.Context, cutoff *time.Time) (int64, error)
}

type usageRepository interface {
	TotalAmountSince(ctx context.Context, cutoff *time.Time) (float64, error)
}

// ServiceParams lists the dependencies needed to build the service.
type ServiceParams struct {
	Points  waterPointRepository
	Tasks   taskRepository
	Alerts  alertRepository
	Quality qualityRepository
	Usage   usageRepository
	Sensors SensorReader
	Health  config.HealthConfig
}

type service struct {
	points  waterPointRepository
	tasks   taskRepository
	alerts  alertRepository
	quality qualityRepository
	usage   usageRepository
	sensors SensorReader
	cfg     config.HealthConfig
}

// NewService validates its dependencies and returns the monitoring service.
func NewService(params ServiceParams) (Service, error) {
	if params.Points == nil {
		return nil, fmt.Errorf("water point repo is required")
	}
	if params.Tasks == nil {
		return nil, fmt.Errorf("task repo is required")
	}
	if params.Alerts == nil {
		return nil, fmt.Errorf("alert repo is required")
	}
	if params.Quality == nil {
		return nil, fmt.Errorf("quality repo is required")
	}
	if params.Usage == nil {
		return nil, fmt.Errorf("usage repo is required")
	}
	if params.Sensors == nil {
		return nil, fmt.Errorf("sensor reader is required")
	}
	return &service{
		points:  params.Points,
		tasks:   params.Tasks,
		alerts:  params.Alerts,
		quality: params.Quality,
		usage:   params.Usage,
		sensors: params.Sensors,
		cfg:     params.Health,
	}, nil
}

// SystemHealth blends availability, quality, maintenance backlog and
// critical alerts into one weighted score. The component queries run
// independently; their failures are combined so one bad query reports
// every broken input at once.
func (s *service) SystemHealth(ctx context.Context) (*SystemHealthDTO, error) {
	var errs []error

	byStatus, err := s.points.CountByStatus(ctx)
	errs = append(errs, err)
	avgQuality, err := s.points.AverageQualityScore(ctx)
	errs = append(errs, err)
	overdue, err := s.tasks.CountOverdue(ctx, time.Now().UTC())
	errs = append(errs, err)
	critical, err := s.alerts.CountActiveByPriority(ctx, enums.AlertPriorityCritical)
	errs = append(errs, err)

	if combined := multierr.Combine(errs...); combined != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, combined, "collect health inputs")
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}
	active := byStatus[enums.WaterPointStatusActive]

	denom := total
	if denom == 0 {
		denom = 1
	}
	availability := float64(active) / float64(denom) * 100
	maintenanceScore := floorZero(100 - float64(s.cfg.OverduePenalty)*float64(overdue))
	alertScore := floorZero(100 - float64(s.cfg.CriticalPenalty)*float64(critical))

	score := s.cfg.AvailabilityWeight*availability +
		s.cfg.QualityWeight*avgQuality +
		s.cfg.MaintenanceWeight*maintenanceScore +
		s.cfg.AlertWeight*alertScore

	return &SystemHealthDTO{
		Score:                score,
		Availability:         availability,
		AverageQuality:       avgQuality,
		MaintenanceScore:     maintenanceScore,
		AlertScore:           alertScore,
		TotalWaterPoints:     total,
		ActiveWaterPoints:    active,
		OverdueTasks:         overdue,
		ActiveCriticalAlerts: critical,
		GeneratedAt:          time.Now().UTC(),
	}, nil
}

// Overview is the monitoring dashboard payload.
func (s *service) Overview(ctx context.Context) (*OverviewDTO, error) {
	health, err := s.SystemHealth(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -30)

	var errs []error
	activeAlerts, err := s.alerts.CountActive(ctx)
	errs = append(errs, err)
	unsafeChecks, err := s.quality.CountUnsafeSince(ctx, &cutoff)
	errs = append(errs, err)
	usageTotal, err := s.usage.TotalAmountSince(ctx, &cutoff)
	errs = append(errs, err)
	byStatus, err := s.points.CountByStatus(ctx)
	errs = append(errs, err)

	if combined := multierr.Combine(errs...); combined != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, combined, "collect overview inputs")
	}

	return &OverviewDTO{
		Health:          *health,
		ActiveAlerts:    activeAlerts,
		CriticalAlerts:  health.ActiveCriticalAlerts,
		UnsafeChecks30d: unsafeChecks,
		PointsByStatus:  byStatus,
		UsageLast30d:    usageTotal,
	}, nil
}

// Status classifies every non-archived water point.
func (s *service) Status(ctx context.Context) ([]PointStatusDTO, error) {
	points, err := s.listMonitored(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(points))
	for i := range points {
		ids = append(ids, points[i].ID)
	}
	alertsByPoint, err := s.alerts.ListActiveForWaterPoints(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load active alerts")
	}

	out := make([]PointStatusDTO, 0, len(points))
	for i := range points {
		point := &points[i]
		latest, err := s.latestCheck(ctx, point.ID)
		if err != nil {
			return nil, err
		}

		alerts := alertsByPoint[point.ID]
		readings := s.sensors.Read(point, latest)
		status := OverallFromReadings(point, readings, len(alerts) > 0)

		dto := PointStatusDTO{
			WaterPointID: point.ID,
			Name:         point.Name,
			Region:       point.Region,
			Status:       status,
			QualityScore: point.QualityScore,
			ActiveAlerts: len(alerts),
		}
		if latest != nil {
			checkedAt := latest.CheckedAt
			dto.LastCheckedAt = &checkedAt
		}
		out = append(out, dto)
	}
	return out, nil
}

// Realtime returns the live sensor view for one water point.
func (s *service) Realtime(ctx context.Context, waterPointID uuid.UUID) (*RealtimeDTO, error) {
	point, err := s.points.FindByID(ctx, waterPointID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "water point not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load water point")
	}

	latest, err := s.latestCheck(ctx, waterPointID)
	if err != nil {
		return nil, err
	}
	hasAlert, err := s.alerts.HasActiveForWaterPoint(ctx, waterPointID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check active alerts")
	}

	readings := s.sensors.Read(point, latest)
	return &RealtimeDTO{
		WaterPointID: point.ID,
		Name:         point.Name,
		Status:       OverallFromReadings(point, readings, hasAlert),
		Readings:     readings,
		Device:       s.sensors.Device(point),
		ObservedAt:   time.Now().UTC(),
	}, nil
}

func (s *service) listMonitored(ctx context.Context) ([]models.WaterPoint, error) {
	var points []models.WaterPoint
	for _, status := range []enums.WaterPointStatus{
		enums.WaterPointStatusActive,
		enums.WaterPointStatusMaintenance,
		enums.WaterPointStatusOffline,
	} {
		rows, err := s.points.ListByStatus(ctx, status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list water points")
		}
		points = append(points, rows...)
	}
	return points, nil
}

func (s *service) latestCheck(ctx context.Context, waterPointID uuid.UUID) (*models.QualityCheck, error) {
	latest, err := s.quality.LatestForWaterPoint(ctx, waterPointID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load latest quality check")
	}
	return latest, nil
}

func floorZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
