package monitoring

import (
	"time"

	"github.com/google/uuid"

	"github.com/aquasafi/aquasafi-backend/pkg/enums"
)

// SystemHealthDTO is the weighted health blend plus its inputs, so
// operators can see which component dragged the score down.
type SystemHealthDTO struct {
	Score            float64 `json:"score"`
	Availability     float64 `json:"availability"`
	AverageQuality   float64 `json:"average_quality"`
	MaintenanceScore float64 `json:"maintenance_score"`
	AlertScore       float64 `json:"alert_score"`

	TotalWaterPoints     int64 `json:"total_water_points"`
	ActiveWaterPoints    int64 `json:"active_water_points"`
	OverdueTasks         int64 `json:"overdue_tasks"`
	ActiveCriticalAlerts int64 `json:"active_critical_alerts"`

	GeneratedAt time.Time `json:"generated_at"`
}

// PointStatusDTO summarizes one water point's live condition.
type PointStatusDTO struct {
	WaterPointID  uuid.UUID           `json:"water_point_id"`
	Name          string              `json:"name"`
	Region        string              `json:"region"`
	Status        enums.OverallStatus `json:"status"`
	QualityScore  *float64            `json:"quality_score,omitempty"`
	ActiveAlerts  int                 `json:"active_alerts"`
	LastCheckedAt *time.Time          `json:"last_checked_at,omitempty"`
}

// RealtimeDTO is the live sensor view for a single water point.
type RealtimeDTO struct {
	WaterPointID uuid.UUID           `json:"water_point_id"`
	Name         string              `json:"name"`
	Status       enums.OverallStatus `json:"status"`
	Readings     []Reading           `json:"readings"`
	Device       Telemetry           `json:"device"`
	ObservedAt   time.Time           `json:"observed_at"`
}

// OverviewDTO is the monitoring dashboard payload: the health blend
// plus headline counts for the operations screen.
type OverviewDTO struct {
	Health SystemHealthDTO `json:"health"`

	ActiveAlerts    int64                            `json:"active_alerts"`
	CriticalAlerts  int64                            `json:"critical_alerts"`
	UnsafeChecks30d int64                            `json:"unsafe_checks_30d"`
	PointsByStatus  map[enums.WaterPointStatus]int64 `json:"points_by_status"`
	UsageLast30d    float64                          `json:"usage_last_30d"`
}
