package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/approval"
	auditapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/audit"
	eventapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/event"
	financeapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/finance"
	identityapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/identity"
	inventoryapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/inventory"
	partnerapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/partner"
	productionapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/production"
	resetapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/reset"
	salesapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/sales"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/auth"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/cache"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/config"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/event"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/logger"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/persistence"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/scheduler"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/storage"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/telemetry"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/interfaces/http/handler"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/interfaces/http/middleware"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	_ "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/docs"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Restaurant Hub API
//	@version		1.0
//	@description	Multi-tenant back office for restaurants: stock ledger, payments, bank reconciliation and approvals.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	tel, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		ServiceName:       serviceName,
		ServiceVersion:    version,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		Metrics:           cfg.Telemetry.MetricsEnabled,
		Logs:              cfg.Telemetry.LogsEnabled,
	})
	if err != nil {
		panic("Failed to initialize telemetry: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	// Every line is also exported over OTLP when log export is on
	log = log.WithOptions(zap.WrapCore(tel.TeeLogs))
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Restaurant Hub",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
		zap.Bool("tracing", tel.TracingEnabled()),
		zap.Bool("metrics", tel.MetricsEnabled()),
	)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiler.Enabled,
		ServerAddress:     cfg.Profiler.ServerAddress,
		ApplicationName:   serviceName,
		BasicAuthUser:     cfg.Profiler.BasicAuthUser,
		BasicAuthPassword: cfg.Profiler.BasicAuthPassword,
		Contention:        cfg.Profiler.Contention,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.Enabled() && tel.EnableSpanProfiles() {
		log.Info("Span profiles linked to traces")
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", db.Driver))

	if db.Driver == "sqlite" || cfg.Database.AutoMigrate {
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
		log.Info("Schema auto-migrated")
	}

	dbSystem := "postgresql"
	if db.Driver == "sqlite" {
		dbSystem = "sqlite"
	}
	dbInst := telemetry.DBInstrumentation{
		Tracing:   tel.TracingEnabled() && cfg.Telemetry.DBTraceEnabled,
		FullSQL:   cfg.Telemetry.DBLogFullSQL,
		System:    dbSystem,
		SlowQuery: cfg.Telemetry.DBSlowQueryThresh,
	}
	if tel.MetricsEnabled() {
		dbInst.Meter = tel.Meter("db.client")
	}
	dbMetrics, err := telemetry.InstrumentDatabase(db.DB, dbInst, log)
	if err != nil {
		log.Warn("Database instrumentation unavailable", zap.Error(err))
	}
	if dbMetrics != nil {
		dbMetrics.StartPoolSampling(ctx)
	}

	// Repositories
	restaurantRepo := persistence.NewGormRestaurantRepository(db.DB)
	membershipRepo := persistence.NewGormMembershipRepository(db.DB)
	itemRepo := persistence.NewGormInventoryItemRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	expensePaymentRepo := persistence.NewGormExpensePaymentRepository(db.DB)
	debtRepo := persistence.NewGormDebtRepository(db.DB)
	debtPaymentRepo := persistence.NewGormDebtPaymentRepository(db.DB)
	bankRepo := persistence.NewGormBankTransactionRepository(db.DB)
	productionRepo := persistence.NewGormProductionLogRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	balanceCache := cache.NewBalanceCache(cfg.Cache, cfg.Redis, log)

	var receipts financeapp.ReceiptStorage
	var receiptStore *storage.ReceiptStore
	if cfg.Storage.Enabled {
		receiptStore, err = storage.NewReceiptStore(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithDefaultTTL(cfg.Storage.PresignExpiration))
		if err != nil {
			log.Fatal("Failed to initialize receipt storage", zap.Error(err))
		}
		if err := receiptStore.EnsureBucket(ctx); err != nil {
			log.Warn("Receipt bucket unavailable", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		}
		receipts = receiptStore
	}

	// Application services
	accessService := identityapp.NewAccessService(restaurantRepo, membershipRepo, log)
	stockLedger := inventoryapp.NewStockLedger(txScope, itemRepo, movementRepo, log)
	saleService := salesapp.NewSaleService(txScope, saleRepo, log)
	expenseService := financeapp.NewExpenseService(txScope, expenseRepo, expensePaymentRepo, receipts, log)
	debtService := financeapp.NewDebtService(txScope, debtRepo, debtPaymentRepo, log)
	allocator := financeapp.NewPaymentAllocator(txScope, expenseRepo, expensePaymentRepo, debtRepo, debtPaymentRepo, log)
	bankReconciler := financeapp.NewBankReconciler(txScope, bankRepo, balanceCache.Cache, log)
	productionService := productionapp.NewProductionService(txScope, productionRepo, itemRepo, log)
	customerService := partnerapp.NewCustomerService(txScope, customerRepo, debtRepo, log)
	gate := approval.NewGate(txScope, log)
	resetService := resetapp.NewResetService(txScope, log)
	auditor := auditapp.NewLedgerAuditor(restaurantRepo, itemRepo, expenseRepo, debtRepo, stockLedger, allocator, log)

	// Domain events fan out in-process after commit
	eventBus := event.NewInMemoryEventBus(log)
	if balanceCache.Cache != nil {
		eventBus.Subscribe(financeapp.NewBalanceCacheInvalidator(balanceCache.Cache, log))
	}

	var ledgerMetrics *telemetry.LedgerMetrics
	if tel.MetricsEnabled() {
		ledgerMetrics, err = telemetry.NewLedgerMetrics(telemetry.LedgerMetricsConfig{
			Meter:         tel.Meter("restaurant-hub/ledger"),
			Logger:        log,
			StockProvider: telemetry.NewGormStockMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Ledger metrics unavailable", zap.Error(err))
		} else {
			eventBus.Subscribe(eventapp.NewLedgerMetricsHandler(ledgerMetrics))
			ledgerMetrics.StartPeriodicCollection(ctx, time.Minute)
			auditor.SetDriftRecorder(ledgerMetrics)
		}
	}

	for _, svc := range []interface {
		SetEventPublisher(shared.EventPublisher)
	}{stockLedger, saleService, expenseService, debtService, allocator, bankReconciler, productionService, customerService, gate, resetService} {
		svc.SetEventPublisher(eventBus)
	}

	var auditScheduler *scheduler.Scheduler
	var auditTrigger *scheduler.CronTrigger
	if cfg.Audit.Enabled {
		auditAt, err := scheduler.ParseDailySchedule(cfg.Audit.Schedule)
		if err != nil {
			log.Fatal("Invalid audit schedule", zap.String("schedule", cfg.Audit.Schedule), zap.Error(err))
		}
		auditScheduler = scheduler.NewScheduler(scheduler.Config{
			Workers:       cfg.Audit.Workers,
			JobTimeout:    cfg.Audit.JobTimeout,
			RetryAttempts: cfg.Audit.RetryAttempts,
			RetryDelay:    cfg.Audit.RetryDelay,
		}, auditor, log)
		if err := auditScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start audit scheduler", zap.Error(err))
		}
		auditTrigger = scheduler.NewCronTrigger(auditAt, auditScheduler, auditor, log)
		if err := auditTrigger.Start(ctx); err != nil {
			log.Fatal("Failed to start audit trigger", zap.Error(err))
		}
	}

	// HTTP
	systemHandler := handler.NewSystemHandler(version)
	systemHandler.AddCheck("database", handler.HealthCheckFunc(db.Ping))
	if balanceCache.Ping != nil {
		systemHandler.AddCheck("cache", handler.HealthCheckFunc(balanceCache.Ping))
	}
	if receiptStore != nil {
		systemHandler.AddCheck("storage", receiptStore)
	}

	handlers := router.Handlers{
		System:     systemHandler,
		Restaurant: handler.NewRestaurantHandler(accessService),
		Inventory:  handler.NewInventoryHandler(stockLedger),
		Sales:      handler.NewSaleHandler(saleService),
		Expenses:   handler.NewExpenseHandler(expenseService, allocator),
		Debts:      handler.NewDebtHandler(debtService, allocator),
		Bank:       handler.NewBankHandler(bankReconciler),
		Production: handler.NewProductionHandler(productionService),
		Customers:  handler.NewCustomerHandler(customerService),
		Approvals:  handler.NewApprovalHandler(gate),
		Reset:      handler.NewResetHandler(resetService),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
	defer rateLimiter.Stop()

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.App.Env == "production"

	var httpMeter metric.Meter
	if tel.MetricsEnabled() {
		httpMeter = tel.Meter("http.server")
	}

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:         log,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		CORS: middleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
			AllowMethods:     cfg.HTTP.CORSAllowMethods,
			AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		Security: security,
		Tracing: middleware.TracingConfig{
			ServiceName: serviceName,
			Enabled:     tel.TracingEnabled(),
			SkipPaths:   []string{"/health", "/api/v1/health"},
		},
		Meter: httpMeter,
		Profiling: middleware.ProfilingConfig{
			Enabled:          profiler.Enabled(),
			SkipPaths:        []string{"/health", "/api/v1/health"},
			SkipPathPrefixes: []string{"/swagger"},
		},
		Swagger:        cfg.Swagger,
		TokenValidator: auth.NewJWTService(cfg.JWT),
		Resolver:       accessService,
		RateLimiter:    rateLimiter,
	}, handlers)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if auditTrigger != nil {
		if err := auditTrigger.Stop(shutdownCtx); err != nil {
			log.Warn("Error stopping audit trigger", zap.Error(err))
		}
	}
	if auditScheduler != nil {
		if err := auditScheduler.Stop(shutdownCtx); err != nil {
			log.Warn("Error stopping audit scheduler", zap.Error(err))
		}
	}
	if ledgerMetrics != nil {
		ledgerMetrics.Stop()
	}
	if dbMetrics != nil {
		dbMetrics.Stop()
	}
	if err := balanceCache.Close(); err != nil {
		log.Warn("Error closing balance cache", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Error stopping profiler", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	if err := tel.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error flushing telemetry", zap.Error(err))
	}
}
