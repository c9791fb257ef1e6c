package main

import (
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
	"github.com/minkhantzaw/vpnshop-backend/internal/config"
	"github.com/minkhantzaw/vpnshop-backend/internal/database"
	"github.com/minkhantzaw/vpnshop-backend/internal/dto"
	"github.com/minkhantzaw/vpnshop-backend/internal/handlers"
	"github.com/minkhantzaw/vpnshop-backend/internal/logging"
	"github.com/minkhantzaw/vpnshop-backend/internal/middleware"
	"github.com/minkhantzaw/vpnshop-backend/internal/qito"
	"github.com/minkhantzaw/vpnshop-backend/internal/routes"
	"github.com/minkhantzaw/vpnshop-backend/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	_ = godotenv.Load()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
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

	// Store-backed log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		dbLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	balanceService := services.NewBalanceService(database.DB)
	userService := services.NewUserService(database.DB)
	planService := services.NewPlanService(database.DB)
	inventoryService := services.NewInventoryService(database.DB)
	paymentService := services.NewPaymentService(database.DB, balanceService)
	issuer := qito.New(cfg.QitoAPIURL, cfg.QitoTimeout)
	entitlementService := services.NewEntitlementService(database.DB, balanceService, inventoryService, issuer)
	topupService := services.NewTopupService(database.DB)
	methodService := services.NewPaymentMethodService(database.DB)
	contactService := services.NewContactService(database.DB)

	// Seed operator defaults and bootstrap the admin account
	if err := topupService.SeedDefaults(); err != nil {
		slog.Error("topup seeding failed", "error", err)
		os.Exit(1)
	}
	if err := methodService.SeedDefaults(); err != nil {
		slog.Error("payment method seeding failed", "error", err)
		os.Exit(1)
	}
	if err := contactService.SeedDefaults(); err != nil {
		slog.Error("contact seeding failed", "error", err)
		os.Exit(1)
	}
	if err := authService.Bootstrap(); err != nil {
		slog.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler()
	planHandler := handlers.NewPlanHandler(planService)
	keyHandler := handlers.NewKeyHandler(inventoryService, cfg)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	userHandler := handlers.NewUserHandler(userService, entitlementService)
	entitlementHandler := handlers.NewEntitlementHandler(entitlementService, inventoryService)
	operatorHandler := handlers.NewOperatorConfigHandler(topupService, methodService, contactService)
	backupHandler := handlers.NewBackupHandler(cfg)

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
		BodyLimit:    16 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
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
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	routes.Setup(app, cfg,
		authHandler, healthHandler, planHandler, keyHandler, paymentHandler,
		userHandler, entitlementHandler, operatorHandler, backupHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("admin panel starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down admin panel...")

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("admin panel stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
