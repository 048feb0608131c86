package controllers

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/api/responses"
	"github.com/aquasafi/aquasafi-backend/pkg/config"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/pkg/logger"
	pkgredis "github.com/aquasafi/aquasafi-backend/pkg/redis"
)

// HealthLive reports process liveness only; it never touches dependencies.
func HealthLive(cfg config.AppConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.Env,
		})
	}
}

// HealthReady pings postgres and redis. Any dependency failure returns
// 503 so the load balancer stops routing to this instance.
func HealthReady(gdb *gorm.DB, cache *pkgredis.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"database": "ok", "redis": "ok"}
		healthy := true

		if gdb == nil {
			checks["database"] = "not configured"
			healthy = false
		} else if sqlDB, err := gdb.DB(); err != nil {
			checks["database"] = err.Error()
			healthy = false
		} else if err := sqlDB.PingContext(ctx); err != nil {
			checks["database"] = err.Error()
			healthy = false
		}

		if cache == nil {
			checks["redis"] = "not configured"
			healthy = false
		} else if err := cache.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "service not ready").
				WithDetails(map[string]any{"checks": checks})
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"status": "ready",
			"checks": checks,
		})
	}
}
