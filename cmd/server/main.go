package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/provider/estimation"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/provider/usda"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/ratelimit"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(os.Stdout, cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// ERROR+ records are also batched into system_logs.
	dbLogHandler := logging.NewDBHandler(database.DB)
	logging.Setup(os.Stdout, cfg.LogLevel, dbLogHandler)
	logging.StartCleanup(ctx, database.DB, cfg.LogRetentionDays)

	loc := cfg.Location()

	// Services
	var estimator estimation.Estimator
	if cfg.MLAPIURL != "" {
		estimator = estimation.NewClient(cfg.MLAPIURL)
	}
	verifier := services.NewSocialVerifier(config.SplitCSV(cfg.GoogleClientIDs), config.SplitCSV(cfg.AppleBundleIDs))
	usdaClient := &usda.Client{APIKey: cfg.USDAAPIKey, BaseURL: cfg.USDAAPIURL}
	if !usdaClient.Enabled() {
		slog.Warn("USDA_API_KEY not set, food search is local only")
	}

	authService := services.NewAuthService(database.DB, cfg, verifier)
	recommendationService := services.NewRecommendationService(database.DB, estimator, cfg.MLTimeout)
	profileService := services.NewProfileService(database.DB, recommendationService, cfg.UploadDir, cfg.PublicBaseURL())
	dashboardService := services.NewDashboardService(database.DB, loc)
	mealLogService := services.NewMealLogService(database.DB, loc)
	workoutLogService := services.NewWorkoutLogService(database.DB, loc)
	catalogService := services.NewCatalogService(database.DB, usdaClient)

	// Rate limit counters: Redis when configured, otherwise per-process memory.
	var limiterStorage fiber.Storage
	if cfg.RedisURL != "" {
		store, err := ratelimit.NewRedisStorage(ctx, cfg.RedisURL, "nutritrack:ratelimit:")
		if err != nil {
			slog.Warn("redis unavailable, using in-memory rate limits", "error", err)
		} else {
			limiterStorage = store
			defer store.Close()
		}
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    6 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, database.DB, routes.Handlers{
		Auth:            handlers.NewAuthHandler(authService),
		Health:          handlers.NewHealthHandler(database.DB),
		Profile:         handlers.NewProfileHandler(profileService),
		Recommendations: handlers.NewRecommendationHandler(recommendationService),
		Dashboard:       handlers.NewDashboardHandler(dashboardService),
		Logs:            handlers.NewLogHandler(mealLogService, workoutLogService, loc),
		Catalog:         handlers.NewCatalogHandler(catalogService),
		Calculator:      handlers.NewCalculatorHandler(),
	}, limiterStorage)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	cancel()
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
