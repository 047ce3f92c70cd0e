package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	catalogapp "github.com/medishare/backend/internal/application/catalog"
	clinicapp "github.com/medishare/backend/internal/application/clinic"
	eventapp "github.com/medishare/backend/internal/application/event"
	inventoryapp "github.com/medishare/backend/internal/application/inventory"
	redistributionapp "github.com/medishare/backend/internal/application/redistribution"
	"github.com/medishare/backend/internal/application/report"
	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/redistribution"
	"github.com/medishare/backend/internal/infrastructure/cache"
	"github.com/medishare/backend/internal/infrastructure/config"
	"github.com/medishare/backend/internal/infrastructure/event"
	"github.com/medishare/backend/internal/infrastructure/logger"
	"github.com/medishare/backend/internal/infrastructure/persistence"
	"github.com/medishare/backend/internal/infrastructure/scheduler"
	"github.com/medishare/backend/internal/infrastructure/telemetry"
	"github.com/medishare/backend/internal/interfaces/http/handler"
	"github.com/medishare/backend/internal/interfaces/http/middleware"
	"github.com/medishare/backend/internal/interfaces/http/router"
)

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

const maxBodyBytes = 1 << 20

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting MediShare backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracer, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meters, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	logs, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	if level, err := logger.ParseLevel(cfg.Log.Level); err == nil {
		log = logs.Bridge(log, level)
	}

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver()))

	dbSystem := "postgresql"
	if db.Driver() == "sqlite" {
		dbSystem = "sqlite"
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBSystem:   dbSystem,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to access database pool", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(context.Background(), db.DB, meters, telemetry.DBMetricsConfig{
		Enabled:            cfg.Telemetry.DBMetricsEnabled,
		SlowQueryThreshold: cfg.Telemetry.SlowQueryThreshold,
	}, log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}

	var redistributionMetrics *telemetry.RedistributionMetrics
	if meters.IsEnabled() {
		if redistributionMetrics, err = telemetry.NewRedistributionMetrics(meters.Meter("medishare/redistribution")); err != nil {
			log.Fatal("Failed to create redistribution metrics", zap.Error(err))
		}
	}

	// Repositories
	clinicRepo := persistence.NewGormClinicRepository(db.DB)
	medicineRepo := persistence.NewGormMedicineRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryItemRepository(db.DB)
	surplusRepo := persistence.NewGormSurplusPostingRepository(db.DB)
	requestRepo := persistence.NewGormMedicineRequestRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	locker, err := cache.NewLockerFactory(cfg.Redis, cfg.Lock, cache.WithLogger(log)).CreateLocker()
	if err != nil {
		log.Fatal("Failed to create key locker", zap.Error(err))
	}

	// Domain events are logged as an activity trail
	eventBus := event.NewInMemoryEventBus(log)
	activity := eventapp.NewActivityLogger(log)
	eventBus.Subscribe(activity, activity.EventTypes()...)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Policies
	stockPolicy := inventory.StockPolicy{
		LowStockThreshold: cfg.Inventory.LowStockThreshold,
		ExpiringSoonDays:  cfg.Inventory.ExpiringSoonDays,
	}
	scoringPolicy := redistribution.ScoringPolicy{
		ExpiryHorizonDays: cfg.Matching.ExpiryHorizonDays,
		ClampExpiryScore:  cfg.Matching.ClampExpiryScore,
	}
	workflow := redistribution.NewTransferWorkflow(
		redistribution.CompletionPolicy{RequireInTransit: cfg.Transfer.RequireInTransit},
		stockPolicy,
	)

	// Application services
	clinicService := clinicapp.NewClinicService(clinicRepo)
	medicineService := catalogapp.NewMedicineService(medicineRepo, locker)

	inventoryService := inventoryapp.NewInventoryService(inventoryRepo, clinicRepo, medicineRepo, medicineService, stockPolicy)
	inventoryService.SetEventPublisher(eventBus)
	refreshService := inventoryapp.NewStatusRefreshService(inventoryRepo, stockPolicy, eventBus, log)
	if redistributionMetrics != nil {
		refreshService.SetMetrics(redistributionMetrics)
	}

	surplusService := redistributionapp.NewSurplusService(surplusRepo, inventoryRepo, locker)
	surplusService.SetEventPublisher(eventBus)

	requestService := redistributionapp.NewRequestService(requestRepo, clinicRepo, medicineRepo, locker)
	requestService.SetEventPublisher(eventBus)

	transferOpts := []redistributionapp.TransferServiceOption{redistributionapp.WithTransferLogger(log)}
	if redistributionMetrics != nil {
		transferOpts = append(transferOpts, redistributionapp.WithTransferMetrics(redistributionMetrics))
	}
	transferService := redistributionapp.NewTransferService(txScope, transferRepo, locker, workflow, transferOpts...)
	transferService.SetEventPublisher(eventBus)

	finder := redistribution.NewMatchFinder(redistribution.NewMatchScorer(scoringPolicy))
	matchingService := redistributionapp.NewMatchingService(surplusRepo, requestRepo, inventoryRepo, medicineRepo, clinicRepo, finder)

	reportService := report.NewReportService(transferRepo, report.NewImpactFactors(
		cfg.Impact.WasteGramsPerUnit,
		cfg.Impact.UnitsPerPatient,
		cfg.Impact.ValuePerUnit,
	))
	summaryService := report.NewSummaryService(clinicRepo, inventoryRepo, surplusRepo, requestRepo, transferRepo)

	refresher := scheduler.NewRefreshScheduler(refreshService, log, scheduler.RefreshSchedulerConfig{
		Enabled:    cfg.Inventory.RefreshEnabled,
		Interval:   cfg.Inventory.RefreshInterval,
		RunTimeout: scheduler.DefaultRefreshSchedulerConfig().RunTimeout,
	})
	if err := refresher.Start(context.Background()); err != nil {
		log.Fatal("Failed to start inventory refresh", zap.Error(err))
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to configure request validation", zap.Error(err))
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	httpMetrics, err := middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meters,
		Enabled:       cfg.Telemetry.MetricsEnabled,
	})
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestContext(log),
		middleware.Tracing(middleware.TracingConfig{
			Enabled:     cfg.Telemetry.Enabled,
			ServiceName: cfg.Telemetry.ServiceName,
		}),
		middleware.TracingAttributeInjector(),
		middleware.SpanErrorMarker(),
		httpMetrics,
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORS(corsConfig),
		middleware.BodyLimit(maxBodyBytes),
	)

	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	inventoryHandler.SetRefreshScheduler(refresher)

	router.NewRouter(engine).Register(router.APIGroups(router.Handlers{
		Health:    handler.NewHealthHandler(sqlDB, version),
		Clinic:    handler.NewClinicHandler(clinicService),
		Medicine:  handler.NewMedicineHandler(medicineService),
		Inventory: inventoryHandler,
		Surplus:   handler.NewSurplusHandler(surplusService),
		Request:   handler.NewRequestHandler(requestService),
		Match:     handler.NewMatchHandler(matchingService),
		Transfer:  handler.NewTransferHandler(transferService),
		Impact:    handler.NewImpactHandler(reportService),
		Summary:   handler.NewSummaryHandler(summaryService),
	})...).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := refresher.Stop(ctx); err != nil {
		log.Warn("Inventory refresh did not stop cleanly", zap.Error(err))
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if dbMetrics != nil {
		dbMetrics.Stop()
	}
	if err := meters.Shutdown(ctx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracer.Shutdown(ctx); err != nil {
		log.Warn("Tracer shutdown failed", zap.Error(err))
	}
	if err := logs.Shutdown(ctx); err != nil {
		log.Warn("Log export shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
