package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/api/controllers"
	"github.com/aquasafi/aquasafi-backend/api/middleware"
	"github.com/aquasafi/aquasafi-backend/internal/alerts"
	auditsvc "github.com/aquasafi/aquasafi-backend/internal/audit"
	"github.com/aquasafi/aquasafi-backend/internal/auth"
	"github.com/aquasafi/aquasafi-backend/internal/dashboard"
	"github.com/aquasafi/aquasafi-backend/internal/inventory"
	"github.com/aquasafi/aquasafi-backend/internal/maintenance"
	"github.com/aquasafi/aquasafi-backend/internal/monitoring"
	"github.com/aquasafi/aquasafi-backend/internal/payments"
	"github.com/aquasafi/aquasafi-backend/internal/quality"
	"github.com/aquasafi/aquasafi-backend/internal/settings"
	"github.com/aquasafi/aquasafi-backend/internal/usage"
	"github.com/aquasafi/aquasafi-backend/internal/users"
	"github.com/aquasafi/aquasafi-backend/internal/waterpoints"
	"github.com/aquasafi/aquasafi-backend/pkg/config"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	"github.com/aquasafi/aquasafi-backend/pkg/logger"
	"github.com/aquasafi/aquasafi-backend/pkg/metrics"
	pkgredis "github.com/aquasafi/aquasafi-backend/pkg/redis"
)

// Deps carries everything the route tree needs. cmd/api builds one after
// wiring the service graph.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger
	DB     *gorm.DB
	Redis  *pkgredis.Client

	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics

	AuthService     auth.Service
	RegisterService auth.RegisterService
	Users           users.Service
	WaterPoints     waterpoints.Service
	Maintenance     maintenance.Service
	Quality         quality.Service
	Usage           usage.Service
	Payments        payments.Service
	Alerts          alerts.Service
	Inventory       inventory.Service
	Settings        settings.Service
	Audit           auditsvc.Service
	Monitoring      monitoring.Service
	Dashboard       dashboard.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App))
		r.Get("/ready", controllers.HealthReady(d.DB, d.Redis, logg))
	})
	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.Register(d.RegisterService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.Login(d.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Post("/refresh", controllers.Refresh(d.AuthService, logg))
			r.Post("/logout", controllers.Logout(d.AuthService, logg))
			r.Post("/change-password", controllers.ChangePassword(d.AuthService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", controllers.Me(d.Users, logg))
			r.Put("/me", controllers.UpdateMe(d.Users, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleSupervisor))
				r.Get("/", controllers.UsersList(d.Users, logg))
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))
				r.Post("/{id}/active", controllers.UserSetActive(d.Users, logg))
			})
		})

		r.Route("/water-points", func(r chi.Router) {
			r.Get("/", controllers.WaterPointList(d.WaterPoints, logg))
			r.Post("/", controllers.WaterPointCreate(d.WaterPoints, logg))
			r.Get("/{id}", controllers.WaterPointGet(d.WaterPoints, logg))
			r.Put("/{id}", controllers.WaterPointUpdate(d.WaterPoints, logg))
			r.Get("/{id}/metrics", controllers.WaterPointMetrics(d.Dashboard, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))
				r.Delete("/{id}", controllers.WaterPointDelete(d.WaterPoints, logg))
				r.Post("/{id}/archive", controllers.WaterPointArchive(d.WaterPoints, logg))
				r.Post("/{id}/restore", controllers.WaterPointRestore(d.WaterPoints, logg))
				r.Post("/bulk-update", controllers.WaterPointBulkUpdate(d.WaterPoints, logg))
			})
		})

		r.Route("/maintenance/tasks", func(r chi.Router) {
			r.Get("/", controllers.TaskList(d.Maintenance, logg))
			r.Post("/", controllers.TaskCreate(d.Maintenance, logg))
			r.Get("/{id}", controllers.TaskGet(d.Maintenance, logg))
			r.Put("/{id}", controllers.TaskUpdate(d.Maintenance, logg))
		})

		r.Route("/quality-checks", func(r chi.Router) {
			r.Get("/", controllers.QualityCheckList(d.Quality, logg))
			r.Post("/", controllers.QualityCheckCreate(d.Quality, logg))
			r.Get("/{id}", controllers.QualityCheckGet(d.Quality, logg))
		})

		r.Route("/usage", func(r chi.Router) {
			r.Get("/", controllers.UsageList(d.Usage, logg))
			r.Post("/", controllers.UsageRecord(d.Usage, logg))
			r.Get("/trends", controllers.UsageTrends(d.Usage, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", controllers.PaymentList(d.Payments, logg))
			r.Post("/", controllers.PaymentRecord(d.Payments, logg))
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", controllers.AlertList(d.Alerts, logg))
			r.Post("/", controllers.AlertCreate(d.Alerts, logg))
			r.Get("/{id}", controllers.AlertGet(d.Alerts, logg))
			r.Post("/{id}/acknowledge", controllers.AlertAcknowledge(d.Alerts, logg))
			r.Post("/{id}/resolve", controllers.AlertResolve(d.Alerts, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(d.Inventory, logg))
			r.Post("/", controllers.InventoryCreate(d.Inventory, logg))
			r.Get("/low-stock", controllers.InventoryLowStock(d.Inventory, logg))
			r.Get("/{id}", controllers.InventoryGet(d.Inventory, logg))
			r.Put("/{id}", controllers.InventoryUpdate(d.Inventory, logg))
			r.Delete("/{id}", controllers.InventoryDelete(d.Inventory, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleSupervisor))
			r.Get("/", controllers.SettingList(d.Settings, logg))
			r.Put("/", controllers.SettingUpsert(d.Settings, logg))
			r.Get("/{key}", controllers.SettingGet(d.Settings, logg))
			r.Delete("/{key}", controllers.SettingDelete(d.Settings, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))
			r.Get("/audit-logs", controllers.AuditList(d.Audit, logg))
		})

		r.Get("/dashboard/stats", controllers.DashboardStats(d.Dashboard, logg))

		r.Route("/monitoring", func(r chi.Router) {
			r.Get("/dashboard", controllers.MonitoringOverview(d.Monitoring, logg))
			r.Get("/status", controllers.MonitoringStatus(d.Monitoring, logg))
			r.Get("/system-health", controllers.MonitoringSystemHealth(d.Monitoring, logg))
			r.Get("/water-points/{id}/realtime", controllers.MonitoringRealtime(d.Monitoring, logg))
		})
	})

	return r
}
