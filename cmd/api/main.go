package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/aquasafi/aquasafi-backend/api/routes"
	"github.com/aquasafi/aquasafi-backend/internal/alerts"
	"github.com/aquasafi/aquasafi-backend/internal/audit"
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
	"github.com/aquasafi/aquasafi-backend/pkg/auth/session"
	"github.com/aquasafi/aquasafi-backend/pkg/config"
	"github.com/aquasafi/aquasafi-backend/pkg/db"
	"github.com/aquasafi/aquasafi-backend/pkg/logger"
	"github.com/aquasafi/aquasafi-backend/pkg/metrics"
	"github.com/aquasafi/aquasafi-backend/pkg/migrate"
	"github.com/aquasafi/aquasafi-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()

	auditRecorder, err := audit.NewRecorder(audit.NewRepository(gdb), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit recorder", err)
		os.Exit(1)
	}

	deps, err := buildServices(cfg, gdb, dbClient, sessionManager, auditRecorder)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps.Config = cfg
	deps.Logger = logg
	deps.DB = gdb
	deps.Redis = redisClient
	deps.Registry = registry
	deps.HTTPMetrics = metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(deps),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func buildServices(
	cfg *config.Config,
	gdb *gorm.DB,
	tx *db.Client,
	sessions *session.Manager,
	recorder audit.Recorder,
) (routes.Deps, error) {
	var deps routes.Deps
	var err error

	usersRepo := users.NewRepository(gdb)

	deps.AuthService, err = auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessions,
		AuditRecorder:  recorder,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return deps, err
	}

	deps.RegisterService, err = auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       tx,
		SessionManager: sessions,
		AuditRecorder:  recorder,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return deps, err
	}

	deps.Users, err = users.NewService(users.ServiceParams{Repo: usersRepo})
	if err != nil {
		return deps, err
	}

	pointsRepo := waterpoints.NewRepository(gdb)
	deps.WaterPoints, err = waterpoints.NewService(waterpoints.ServiceParams{
		Repo:          pointsRepo,
		AuditRecorder: recorder,
	})
	if err != nil {
		return deps, err
	}

	tasksRepo := maintenance.NewRepository(gdb)
	deps.Maintenance, err = maintenance.NewService(maintenance.ServiceParams{
		TxRunner:      tx,
		TaskRepo:      tasksRepo,
		AuditRecorder: recorder,
	})
	if err != nil {
		return deps, err
	}

	qualityRepo := quality.NewRepository(gdb)
	deps.Quality, err = quality.NewService(quality.ServiceParams{
		TxRunner:      tx,
		CheckRepo:     qualityRepo,
		AuditRecorder: recorder,
		QualityConfig: cfg.Quality,
	})
	if err != nil {
		return deps, err
	}

	usageRepo := usage.NewRepository(gdb)
	deps.Usage, err = usage.NewService(usage.ServiceParams{
		Repo:          usageRepo,
		AuditRecorder: recorder,
	})
	if err != nil {
		return deps, err
	}

	paymentsRepo := payments.NewRepository(gdb)
	deps.Payments, err = payments.NewService(payments.ServiceParams{
		Repo:          paymentsRepo,
		AuditRecorder: recorder,
	})
	if err != nil {
		return deps, err
	}

	alertsRepo := alerts.NewRepository(gdb)
	deps.Alerts, err = alerts.NewService(alerts.ServiceParams{
		Repo:          alertsRepo,
		AuditRecorder: recorder,
	})
	if err != nil {
		return deps, err
	}

	deps.Inventory, err = inventory.NewService(inventory.ServiceParams{
		Repo:          inventory.NewRepository(gdb),
		AuditRecorder: recorder,
	})
	if err != nil {
		return deps, err
	}

	deps.Settings, err = settings.NewService(settings.ServiceParams{
		Repo:          settings.NewRepository(gdb),
		AuditRecorder: recorder,
	})
	if err != nil {
		return deps, err
	}

	deps.Audit, err = audit.NewService(audit.ServiceParams{Repo: audit.NewRepository(gdb)})
	if err != nil {
		return deps, err
	}

	deps.Monitoring, err = monitoring.NewService(monitoring.ServiceParams{
		Points:  pointsRepo,
		Tasks:   tasksRepo,
		Alerts:  alertsRepo,
		Quality: qualityRepo,
		Usage:   usageRepo,
		Sensors: monitoring.NewSimulatedReader(),
		Health:  cfg.Health,
	})
	if err != nil {
		return deps, err
	}

	deps.Dashboard, err = dashboard.NewService(dashboard.ServiceParams{
		Points:   pointsRepo,
		Tasks:    tasksRepo,
		Alerts:   alertsRepo,
		Quality:  qualityRepo,
		Usage:    usageRepo,
		Payments: paymentsRepo,
	})
	if err != nil {
		return deps, err
	}

	return deps, nil
}
