package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/membify/membify-backend/internal/clock"
	"github.com/membify/membify-backend/internal/config"
	"github.com/membify/membify-backend/internal/database"
	"github.com/membify/membify-backend/internal/handlers"
	"github.com/membify/membify-backend/internal/logging"
	"github.com/membify/membify-backend/internal/middleware"
	"github.com/membify/membify-backend/internal/routes"
	"github.com/membify/membify-backend/internal/scheduler"
	"github.com/membify/membify-backend/internal/services"
	"github.com/membify/membify-backend/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Telegram send primitive. A missing token leaves broadcasts disabled
	// but the rest of the API up.
	var sender telegram.Sender
	if s, err := telegram.NewBotSender(cfg.TelegramBotToken); err != nil {
		if errors.Is(err, telegram.ErrUnavailable) {
			slog.Warn("TELEGRAM_BOT_TOKEN not set, broadcasts disabled")
		} else {
			slog.Error("telegram bot init failed", "error", err)
			os.Exit(1)
		}
	} else {
		sender = s
	}

	// Services
	clk := clock.System()
	authService := services.NewAuthService(database.DB, cfg)
	communityService := services.NewCommunityService(database.DB)
	planService := services.NewPlanService(database.DB)
	memberService := services.NewMemberService(database.DB, clk)
	expiryService := services.NewExpiryService(database.DB, clk, cfg.CronStatusCacheTTL)
	broadcastService := services.NewBroadcastService(database.DB, sender, clk, cfg.BroadcastSendDelay)
	eligibilityService := services.NewEligibilityService(database.DB)
	billingService := services.NewBillingService(database.DB)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler()
	communityHandler := handlers.NewCommunityHandler(communityService)
	planHandler := handlers.NewPlanHandler(planService, communityService)
	memberHandler := handlers.NewMemberHandler(memberService, communityService)
	broadcastHandler := handlers.NewBroadcastHandler(broadcastService, communityService)
	cronHandler := handlers.NewCronHandler(expiryService, communityService)
	searchHandler := handlers.NewSearchHandler(eligibilityService)
	billingHandler := handlers.NewBillingHandler(billingService, communityService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, database.DB, authHandler, healthHandler, communityHandler,
		planHandler, memberHandler, broadcastHandler, cronHandler, searchHandler,
		billingHandler)

	// Minute-aligned expiry scan
	schedCtx, schedCancel := context.WithCancel(context.Background())
	go scheduler.New(expiryService).Run(schedCtx)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	schedCancel()
	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
