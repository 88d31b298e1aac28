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

	integrationapp "github.com/pos/backend/internal/application/integration"
	orderingapp "github.com/pos/backend/internal/application/ordering"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/cache"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/kitchen"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/infrastructure/marketplace"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"github.com/pos/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting POS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	menuItemRepo := persistence.NewGormMenuItemRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	providerRepo := persistence.NewGormProviderRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)

	// Transaction scopes used by the write paths
	orderingScope := persistence.NewGormOrderingTransactionScope(db.DB)
	integrationScope := persistence.NewGormIntegrationTransactionScope(db.DB)

	// Webhook event deduplication store (in-memory or redis)
	idempotencyStore, err := cache.NewIdempotencyStore(cfg.Webhook, cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	idemConfig := shared.IdempotencyConfig{
		TTL:     cfg.Webhook.DedupeTTL,
		Enabled: true,
	}

	// Outbound adapters
	doordash := marketplace.NewDoorDashClient(cfg.Marketplace, log)
	marketplaces := marketplace.NewRegistry(doordash)
	dispatcher := kitchen.NewHTTPDispatcher(cfg.Kitchen, log)

	// Initialize application services
	orderService := orderingapp.NewOrderService(orderingScope)
	providerService := integrationapp.NewProviderService(providerRepo, storeRepo)
	registryService := integrationapp.NewRegistryService(integrationScope)
	dispatchService := integrationapp.NewDispatchService(integrationScope, dispatcher)
	menuExportService := integrationapp.NewMenuExportService(
		categoryRepo, menuItemRepo, providerRepo, storeRepo, marketplaces, log,
	)
	webhookRouter := integrationapp.NewWebhookRouter(
		providerRepo, storeRepo, registryService, dispatchService,
		integrationScope, idempotencyStore, idemConfig, log,
	)

	// Initialize HTTP handlers
	orderHandler := handler.NewOrderHandler(orderService)
	providerHandler := handler.NewProviderHandler(providerService, menuExportService)
	webhookHandler := handler.NewWebhookHandler(webhookRouter)
	healthHandler := handler.NewHealthHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request id, panic recovery, request logging, body limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler.Health)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(orderHandler).
		Register(providerHandler).
		Register(webhookHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
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
