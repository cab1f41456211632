package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	inventoryapp "github.com/pharmadist/backend/internal/application/inventory"
	orderapp "github.com/pharmadist/backend/internal/application/order"
	returnsapp "github.com/pharmadist/backend/internal/application/returns"
	"github.com/pharmadist/backend/internal/domain/shared"
	"github.com/pharmadist/backend/internal/infrastructure/cache"
	"github.com/pharmadist/backend/internal/infrastructure/config"
	"github.com/pharmadist/backend/internal/infrastructure/event"
	"github.com/pharmadist/backend/internal/infrastructure/logger"
	"github.com/pharmadist/backend/internal/infrastructure/persistence"
	"github.com/pharmadist/backend/internal/infrastructure/shipping"
	"github.com/pharmadist/backend/internal/infrastructure/telemetry"
	"github.com/pharmadist/backend/internal/interfaces/http/handler"
	"github.com/pharmadist/backend/internal/interfaces/http/middleware"
	"github.com/pharmadist/backend/internal/interfaces/http/router"
)

func main() {
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
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting pharmadist backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Idempotency store for the carrier webhook: Redis when configured,
	// in-memory otherwise
	var idempotencyStore shared.IdempotencyStore
	if cfg.Redis.Host != "" {
		store, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory idempotency store", zap.Error(err))
			idempotencyStore = cache.NewInMemoryIdempotencyStore()
		} else {
			idempotencyStore = store
		}
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Repositories and transaction scopes
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	historyRepo := persistence.NewGormStatusHistoryRepository(db.DB)
	stockBatchRepo := persistence.NewGormStockBatchRepository(db.DB)
	reservationRepo := persistence.NewGormReservationRepository(db.DB)
	ledger := persistence.NewGormLedger(stockBatchRepo, reservationRepo)
	orderScope := persistence.NewGormOrderTransactionScope(db.DB)
	returnsScope := persistence.NewGormReturnsTransactionScope(db.DB)

	// Carrier adapter
	carrier := shipping.NewStubCarrier(cfg.App.Name)

	// Application services
	orderService := orderapp.NewOrderService(orderRepo, historyRepo)
	orderService.SetEventPublisher(eventBus)

	lifecycleService := orderapp.NewLifecycleService(orderScope, carrier, log, tp.Tracer("lifecycle"))
	lifecycleService.SetEventPublisher(eventBus)
	lifecycleService.SetLedgerTimeout(cfg.Ledger.CallTimeout)

	returnService := returnsapp.NewReturnService(returnsScope, log)
	returnService.SetEventPublisher(eventBus)

	stockService := inventoryapp.NewStockService(ledger, stockBatchRepo)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Routes
	webhookHandler := handler.NewCarrierWebhookHandler(
		orderService,
		lifecycleService,
		idempotencyStore,
		shared.IdempotencyConfig{
			Enabled: cfg.Webhook.IdempotencyEnabled,
			TTL:     cfg.Webhook.IdempotencyTTL,
		},
		log,
	)

	r := router.NewRouter(engine)
	r.Register(handler.NewOrderHandler(orderService, lifecycleService)).
		Register(handler.NewReturnHandler(returnService)).
		Register(handler.NewStockHandler(stockService)).
		Register(webhookHandler)
	r.Setup()

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
