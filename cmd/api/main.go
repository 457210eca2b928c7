package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"docbridge/internal/config"
	"docbridge/internal/database"
	"docbridge/internal/database/migration"
	"docbridge/internal/demo"
	handlers "docbridge/internal/http/handler"
	"docbridge/internal/http/middleware"
	"docbridge/internal/logger"
	"docbridge/internal/otel"
	"docbridge/internal/repository/postgres"
	"docbridge/internal/service"
	"docbridge/internal/storage"
	"docbridge/internal/token"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	zl := logger.New()
	defer zl.Sync()

	// Demo mode replaces the configured editor with the vendor-hosted trial
	// instance for up to the trial period.
	if cfg.Demo.Enabled {
		trial := demo.Trial{StartedAt: cfg.Demo.StartedAt}
		if trial.Available(time.Now()) {
			cfg.Editor.Address = demo.EditorAddress
			cfg.Editor.InternalAddress = demo.EditorAddress
			cfg.Editor.SecretKey = demo.SecretKey
			cfg.Editor.TokenHeader = demo.TokenHeader
			zl.Info("demo editor enabled", zap.Int("days_remaining", trial.DaysRemaining(time.Now())))
		} else {
			zl.Warn("demo trial expired, using configured editor")
		}
	}

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, zl)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, zl); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Initialize repositories and services
	docRepo := postgres.NewDocumentPostgres(db)
	permRepo := postgres.NewPermissionPostgres(db)
	userRepo := postgres.NewUserPostgres(db)
	postRepo := postgres.NewPostPostgres(db)

	codec := token.NewCodec(cfg.Editor.SecretKey)
	editorClient := service.NewEditorHTTPClient(cfg.Editor)

	docSvc := service.NewDocumentService(objStore, docRepo, zl)
	permSvc := service.NewPermissionService(docRepo, permRepo, userRepo, postRepo, zl)
	sessionSvc := service.NewSessionService(docRepo, userRepo, permSvc, codec, cfg, zl)
	saver := service.NewDocumentSaver(objStore, docRepo, editorClient, cfg.Editor.InternalAddress, zl)
	callbackSvc := service.NewCallbackService(codec, saver, zl)
	convertSvc := service.NewConversionService(docRepo, codec, editorClient, cfg, zl)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(zl))

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMW, err := middleware.NewPrometheusMiddleware(promReg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, cfg, handlers.Services{
		Documents:   docSvc,
		Sessions:    sessionSvc,
		Callbacks:   callbackSvc,
		Permissions: permSvc,
		Conversions: convertSvc,
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
