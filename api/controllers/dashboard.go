package controllers

import (
	"net/http"

	"github.com/aquasafi/aquasafi-backend/api/responses"
	"github.com/aquasafi/aquasafi-backend/internal/dashboard"
	"github.com/aquasafi/aquasafi-backend/pkg/logger"
)

func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// WaterPointMetrics serves the per-point dashboard card: latest quality,
// open tasks, active alerts, and the 30-day usage series.
func WaterPointMetrics(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		metrics, err := svc.PointMetrics(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, metrics)
	}
}
