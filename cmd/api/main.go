package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/trananhdev/meeting-minutes/pkg/validator"

	"github.com/trananhdev/meeting-minutes/internal/adapter/handler"
	"github.com/trananhdev/meeting-minutes/internal/adapter/repository"
	"github.com/trananhdev/meeting-minutes/internal/infrastructure/cache"
	"github.com/trananhdev/meeting-minutes/internal/infrastructure/database"
	"github.com/trananhdev/meeting-minutes/internal/infrastructure/external/conference"
	"github.com/trananhdev/meeting-minutes/internal/infrastructure/mail"
	"github.com/trananhdev/meeting-minutes/internal/infrastructure/storage"
	"github.com/trananhdev/meeting-minutes/internal/usecase/credentials"
	"github.com/trananhdev/meeting-minutes/internal/usecase/distribution"
	"github.com/trananhdev/meeting-minutes/internal/usecase/ingest"
	"github.com/trananhdev/meeting-minutes/internal/usecase/pipeline"
	pkgai "github.com/trananhdev/meeting-minutes/pkg/ai"
	"github.com/trananhdev/meeting-minutes/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Applying migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisStore, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisStore.Close()

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	jobRepo := repository.NewJobRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)
	minutesRepo := repository.NewMinutesRepository(db)
	deliveryRepo := repository.NewDeliveryLogRepository(db)

	// Initialize external clients
	log.Println("🤖 Initializing external clients...")
	mediaClient := conference.NewClient(cfg.Provider.MediaTimeout)
	transcriber := pkgai.NewTranscriber(&cfg.STT)
	summarizer := pkgai.NewSummarizerClient(&cfg.Summarizer)
	mailer := mail.NewSMTPSender(&cfg.Mail)

	// Artifact archive is optional; the pipeline runs without it
	var archive pipeline.Archiver
	archiveClient, err := storage.NewArchiveClient(&cfg.Storage)
	if err != nil {
		logger.Warn("⚠️ Artifact archive unavailable, continuing without it", zap.Error(err))
	} else {
		archive = archiveClient
	}

	// Initialize services
	log.Println("✨ Initializing services...")
	resolver := credentials.NewResolver(credentialRepo, &cfg.Provider, logger)
	strategy := pipeline.NewStrategy(mediaClient, transcriber, cfg.STT.Timeout, logger)
	generator := pipeline.NewGenerator(summarizer, logger)
	distributor := distribution.NewEngine(mailer, deliveryRepo, cfg.Mail.SendTimeout, logger)

	orchestrator := pipeline.NewService(
		jobRepo, minutesRepo, resolver, strategy, generator, distributor,
		archive, &cfg.Worker, logger,
	)

	ingestService := ingest.NewService(jobRepo, minutesRepo, deliveryRepo, resolver, redisStore, logger)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	webhookHandler := handler.NewWebhook(ingestService, logger)
	jobHandler := handler.NewJob(ingestService, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, webhookHandler, jobHandler)
	router.Setup(e)

	// Start the worker pool
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	orchestrator.StartWorkers(workerCtx)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	stopWorkers()
	orchestrator.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
