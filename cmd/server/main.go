package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ledgerapp "github.com/bucketledger/backend/internal/application/ledger"
	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/infrastructure/cache"
	"github.com/bucketledger/backend/internal/infrastructure/config"
	"github.com/bucketledger/backend/internal/infrastructure/event"
	"github.com/bucketledger/backend/internal/infrastructure/logger"
	"github.com/bucketledger/backend/internal/infrastructure/persistence"
	"github.com/bucketledger/backend/internal/infrastructure/telemetry"
	"github.com/bucketledger/backend/internal/interfaces/http/handler"
	"github.com/bucketledger/backend/internal/interfaces/http/middleware"
	"github.com/bucketledger/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()
	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}

	// The log bridge has to exist before the logger so its core can be teed in.
	// It logs its own startup through a bootstrap logger.
	bootstrap, _ := logger.NewForEnvironment(cfg.App.Env)
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetryCfg, bootstrap)
	if err != nil {
		panic("Failed to initialize log exporter: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	}
	var extra []zapcore.Core
	if logProvider.IsEnabled() {
		extra = append(extra, logProvider.Core(zapcore.InfoLevel))
	}
	log, err := logger.New(logCfg, extra...)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logProvider.Shutdown(context.Background())
		_ = logger.Sync(log)
	}()

	log.Info("Starting bucket ledger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		_ = tracerProvider.Shutdown(context.Background())
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		_ = meterProvider.Shutdown(context.Background())
	}()

	balanceMetrics, err := telemetry.NewBalanceMetrics(meterProvider.Meter("bucket-ledger"))
	if err != nil {
		log.Fatal("Failed to create balance metrics", zap.Error(err))
	}

	// Database
	gormLogger := logger.NewGormLogger(log.Named("gorm"), logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver()))

	// Postgres schemas are owned by cmd/migrate; sqlite files are created in place.
	if db.Driver() == persistence.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite database", zap.Error(err))
		}
	}

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        telemetry.DBSystemForDriver(db.Driver()),
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		_ = eventBus.Stop(context.Background())
	}()

	// Repositories
	bucketRepo := persistence.NewGormBucketRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	correctionRepo := persistence.NewGormBalanceCorrectionRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	milesRepo := persistence.NewGormMilesRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)

	// Caches
	bucketCache := cache.NewRecordCache(ledger.AggregateBucket, bucketLoader(bucketRepo), eventBus, log)
	defer func() {
		_ = bucketCache.Close()
	}()

	balanceCache, err := cache.NewBalanceCacheFactory(cfg.Redis, cache.WithLogger(log)).CreateCache()
	if err != nil {
		log.Fatal("Failed to create balance cache", zap.Error(err))
	}
	defer func() {
		_ = balanceCache.Close()
	}()
	eventBus.Subscribe(cache.NewBalanceInvalidator(balanceCache, log))

	// Application services
	bucketService := ledgerapp.NewBucketService(bucketRepo, bucketCache, eventBus, log)
	transactionService := ledgerapp.NewTransactionService(transactionRepo, bucketCache, eventBus, log)
	correctionService := ledgerapp.NewCorrectionService(correctionRepo, bucketCache, eventBus, log)
	subscriptionService := ledgerapp.NewSubscriptionService(subscriptionRepo, bucketCache, eventBus, log)
	milesService := ledgerapp.NewMilesService(milesRepo, eventBus, log)
	categoryService := ledgerapp.NewCategoryService(categoryRepo, eventBus, log)
	balanceService := ledgerapp.NewBalanceService(
		transactionRepo,
		correctionRepo,
		subscriptionRepo,
		balanceCache,
		cfg.Balance.MaxSeriesDays,
		log,
	)
	balanceService.SetBalanceMetrics(balanceMetrics)

	// Stream
	streamHandler := handler.NewStreamHandler(eventBus,
		handler.WithStreamLogger(log),
		handler.WithStreamHeartbeat(cfg.Stream.HeartbeatInterval),
		handler.WithStreamMaxClients(cfg.Stream.MaxClients),
		handler.WithStreamClientBuffer(cfg.Stream.ClientBuffer),
	)
	if err := streamHandler.Start(); err != nil {
		log.Fatal("Failed to start event stream", zap.Error(err))
	}
	defer streamHandler.Stop()

	// Health
	healthHandler := handler.NewHealthHandler(version, 2*time.Second, log)
	healthHandler.AddCheck("database", func(context.Context) error {
		return db.Ping()
	})
	healthHandler.AddCheck("event_bus", eventBus.Ping)
	if pinger, ok := balanceCache.(interface{ Ping(context.Context) error }); ok {
		healthHandler.AddCheck("redis", pinger.Ping)
	}

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: telemetryCfg.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanAttributes())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	r := router.Mount(engine, router.Handlers{
		Buckets:       handler.NewBucketHandler(bucketService),
		Transactions:  handler.NewTransactionHandler(transactionService),
		Corrections:   handler.NewCorrectionHandler(correctionService),
		Subscriptions: handler.NewSubscriptionHandler(subscriptionService),
		Miles:         handler.NewMilesHandler(milesService),
		Categories:    handler.NewCategoryHandler(categoryService),
		Balances:      handler.NewBalanceHandler(balanceService),
		Stream:        streamHandler,
		Health:        healthHandler,
	})
	log.Info("Routes registered", zap.String("base_path", r.BasePath()), zap.Int("routes", len(engine.Routes())))

	// The stream endpoint holds connections open, so WriteTimeout must not
	// cut it off; per-request deadlines come from the handlers instead.
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   0,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Close open streams first so Shutdown does not wait on them.
	streamHandler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// bucketLoader feeds the bucket cache. The cache mirrors active and archived
// buckets alike; listing filters by the flag.
func bucketLoader(repo *persistence.GormBucketRepository) cache.RecordLoader[*ledger.Bucket] {
	return cache.RecordLoader[*ledger.Bucket]{
		One: func(ctx context.Context, id uuid.UUID) (*ledger.Bucket, error) {
			return repo.FindByID(ctx, id)
		},
		All: func(ctx context.Context) ([]*ledger.Bucket, error) {
			var out []*ledger.Bucket
			for _, archived := range []bool{false, true} {
				buckets, err := repo.FindAll(ctx, archived)
				if err != nil {
					return nil, err
				}
				for i := range buckets {
					out = append(out, &buckets[i])
				}
			}
			return out, nil
		},
	}
}
