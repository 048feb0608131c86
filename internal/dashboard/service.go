package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/internal/usage"
	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
)

// Service computes read-only summaries for the dashboard screens.
type Service interface {
	Stats(ctx context.Context) (*StatsDTO, error)
	PointMetrics(ctx context.Context, waterPointID uuid.UUID) (*PointMetricsDTO, error)
}

type waterPointRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.WaterPoint, error)
	CountByStatus(ctx context.Context) (map[enums.WaterPointStatus]int64, error)
}

type taskRepository interface {
	CountByStatus(ctx context.Context) (map[enums.TaskStatus]int64, error)
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
	CountOpenForWaterPoint(ctx context.Context, waterPointID uuid.UUID) (int64, error)
}

type alertRepository interface {
	CountActive(ctx context.Context) (int64, error)
	CountActiveByPriority(ctx context.Context, priority enums.AlertPriority) (int64, error)
	HasActiveForWaterPoint(ctx context.Context, waterPointID uuid.UUID) (bool, error)
}

type qualityRepository interface {
	LatestForWaterPoint(ctx context.Context, waterPointID uuid.UUID) (*models.QualityCheck, error)
	AverageScoreSince(ctx context.Context, cutoff *time.Time) (float64, error)
	CountUnsafeSince(ctx context.Context, cutoff *time.Time) (int64, error)
}

type usageRepository interface {
	TotalAmountSince(ctx context.Context, cutoff *time.Time) (float64, error)
	DailyTotals(ctx context.Context, waterPointID *uuid.UUID, since time.Time) ([]usage.DailyTotal, error)
}

type paymentRepository interface {
	TotalCompletedSince(ctx context.Context, cutoff *time.Time) (decimal.Decimal, error)
}

// ServiceParams lists the dependencies needed to build the service.
type ServiceParams struct {
	Points   waterPointRepository
	Tasks    taskRepository
	Alerts   alertRepository
	Quality  qualityRepository
	Usage    usageRepository
	Payments paymentRepository
}

type service struct {
	points   waterPointRepository
	tasks    taskRepository
	alerts   alertRepository
	quality  qualityRepository
	usage    usageRepository
	payments paymentRepository
}

// NewService validates its dependencies and returns the dashboard service.
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
	if params.Payments == nil {
		return nil, fmt.Errorf("payment repo is required")
	}
	return &service{
		points:   params.Points,
		tasks:    params.Tasks,
		alerts:   params.Alerts,
		quality:  params.Quality,
		usage:    params.Usage,
		payments: params.Payments,
	}, nil
}

func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -30)

	var errs []error

	pointsByStatus, err := s.points.CountByStatus(ctx)
	errs = append(errs, err)
	tasksByStatus, err := s.tasks.CountByStatus(ctx)
	errs = append(errs, err)
	overdue, err := s.tasks.CountOverdue(ctx, now)
	errs = append(errs, err)
	activeAlerts, err := s.alerts.CountActive(ctx)
	errs = append(errs, err)
	criticalAlerts, err := s.alerts.CountActiveByPriority(ctx, enums.AlertPriorityCritical)
	errs = append(errs, err)
	avgQuality, err := s.quality.AverageScoreSince(ctx, &cutoff)
	errs = append(errs, err)
	unsafeChecks, err := s.quality.CountUnsafeSince(ctx, &cutoff)
	errs = append(errs, err)
	usageTotal, err := s.usage.TotalAmountSince(ctx, &cutoff)
	errs = append(errs, err)
	revenue, err := s.payments.TotalCompletedSince(ctx, &cutoff)
	errs = append(errs, err)

	if combined := multierr.Combine(errs...); combined != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, combined, "collect dashboard stats")
	}

	var totalPoints int64
	for _, count := range pointsByStatus {
		totalPoints += count
	}

	return &StatsDTO{
		TotalWaterPoints:  totalPoints,
		ActiveWaterPoints: pointsByStatus[enums.WaterPointStatusActive],
		PendingTasks:      tasksByStatus[enums.TaskStatusPending],
		InProgressTasks:   tasksByStatus[enums.TaskStatusInProgress],
		OverdueTasks:      overdue,
		ActiveAlerts:      activeAlerts,
		CriticalAlerts:    criticalAlerts,
		AverageQuality30d: avgQuality,
		UnsafeChecks30d:   unsafeChecks,
		UsageAmount30d:    usageTotal,
		Revenue30d:        revenue,
		GeneratedAt:       now,
	}, nil
}

func (s *service) PointMetrics(ctx context.Context, waterPointID uuid.UUID) (*PointMetricsDTO, error) {
	point, err := s.points.FindByID(ctx, waterPointID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "water point not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load water point")
	}

	since := time.Now().UTC().AddDate(0, 0, -30)

	openTasks, err := s.tasks.CountOpenForWaterPoint(ctx, waterPointID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count open tasks")
	}
	hasAlerts, err := s.alerts.HasActiveForWaterPoint(ctx, waterPointID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check active alerts")
	}
	daily, err := s.usage.DailyTotals(ctx, &waterPointID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load usage totals")
	}

	metrics := &PointMetricsDTO{
		WaterPointID: point.ID,
		Name:         point.Name,
		Status:       point.Status,
		QualityScore: point.QualityScore,
		OpenTasks:    openTasks,
		ActiveAlerts: hasAlerts,
		DailyUsage:   daily,
	}

	latest, err := s.quality.LatestForWaterPoint(ctx, waterPointID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load latest quality check")
		}
	} else {
		checkedAt := latest.CheckedAt
		isSafe := latest.IsSafe
		metrics.LastCheckedAt = &checkedAt
		metrics.LastCheckSafe = &isSafe
	}
	return metrics, nil
}
