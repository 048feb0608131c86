package dashboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aquasafi/aquasafi-backend/internal/usage"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
)

// StatsDTO is the landing-page summary across the whole system.
type StatsDTO struct {
	TotalWaterPoints  int64 `json:"total_water_points"`
	ActiveWaterPoints int64 `json:"active_water_points"`

	PendingTasks    int64 `json:"pending_tasks"`
	InProgressTasks int64 `json:"in_progress_tasks"`
	OverdueTasks    int64 `json:"overdue_tasks"`

	ActiveAlerts   int64 `json:"active_alerts"`
	CriticalAlerts int64 `json:"critical_alerts"`

	AverageQuality30d float64 `json:"average_quality_30d"`
	UnsafeChecks30d   int64   `json:"unsafe_checks_30d"`

	UsageAmount30d float64         `json:"usage_amount_30d"`
	Revenue30d     decimal.Decimal `json:"revenue_30d"`

	GeneratedAt time.Time `json:"generated_at"`
}

// PointMetricsDTO is the per-asset drill-down behind a water point's
// dashboard card.
type PointMetricsDTO struct {
	WaterPointID uuid.UUID              `json:"water_point_id"`
	Name         string                 `json:"name"`
	Status       enums.WaterPointStatus `json:"status"`

	QualityScore  *float64   `json:"quality_score,omitempty"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
	LastCheckSafe *bool      `json:"last_check_safe,omitempty"`

	OpenTasks    int64 `json:"open_tasks"`
	ActiveAlerts bool  `json:"active_alerts"`

	DailyUsage []usage.DailyTotal `json:"daily_usage"`
}
