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

	"github.com/SAP-F-2025/diagnostic-service/internal/cache"
	"github.com/SAP-F-2025/diagnostic-service/internal/config"
	"github.com/SAP-F-2025/diagnostic-service/internal/handlers"
	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/SAP-F-2025/diagnostic-service/internal/questionsource"
	"github.com/SAP-F-2025/diagnostic-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/diagnostic-service/internal/services"
	"github.com/SAP-F-2025/diagnostic-service/internal/utils"
	"github.com/SAP-F-2025/diagnostic-service/pkg"
)

// sweepBatchSize bounds how many expired sessions one sweeper tick
// finalizes.
const sweepBatchSize = 100

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(
		&models.Domain{},
		&models.Skill{},
		&models.Question{},
		&models.DiagnosticSession{},
		&models.StudentProfile{},
	); err != nil {
		logger.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	var cacheService cache.CacheService
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, running without cache", "error", err)
	} else {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, slogger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	repo := postgres.NewManager(db)
	bank := questionsource.NewBank(repo.Question(), logger)
	gemini := questionsource.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, repo.Skill(), logger)
	validator := utils.NewValidator()

	serviceManager := services.NewServiceManager(services.ManagerDeps{
		Repo:      repo,
		Publisher: publisher,
		Bank:      bank,
		Generator: gemini,
		Cache:     cacheService,
		Config:    cfg,
		Logger:    slogger,
		Validator: validator,
	})

	// Reference data must exist before any session can start.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := serviceManager.Skill.SeedTaxonomy(startupCtx); err != nil {
		logger.Error("Failed to seed taxonomy", "error", err)
		cancelStartup()
		os.Exit(1)
	}
	if err := bank.Seed(startupCtx); err != nil {
		logger.Error("Failed to seed question bank", "error", err)
		cancelStartup()
		os.Exit(1)
	}
	cancelStartup()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(serviceManager, cfg, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go runTimeoutSweeper(sweepCtx, serviceManager.Diagnostic, cfg.TimeoutSweepInterval, logger)

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
}

// runTimeoutSweeper periodically finalizes modules whose timer elapsed
// without a submit. Finalization is idempotent, so overlapping with a
// concurrent manual submit is safe.
func runTimeoutSweeper(ctx context.Context, diagnostic services.DiagnosticService, interval time.Duration, logger utils.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			finalized, err := diagnostic.FinalizeExpired(ctx, sweepBatchSize)
			if err != nil {
				logger.Error("Timeout sweep failed", "error", err)
				continue
			}
			if finalized > 0 {
				logger.Info("Timeout sweep finalized sessions", "count", finalized)
			}
		}
	}
}
