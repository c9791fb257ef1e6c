package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"github.com/minkhantzaw/vpnshop-backend/internal/config"
	"github.com/minkhantzaw/vpnshop-backend/internal/database"
	"github.com/minkhantzaw/vpnshop-backend/internal/logging"
	"github.com/minkhantzaw/vpnshop-backend/internal/qito"
	"github.com/minkhantzaw/vpnshop-backend/internal/services"
	"github.com/minkhantzaw/vpnshop-backend/internal/telegram"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	_ = godotenv.Load()

	cfg := config.Load()

	if cfg.BotToken == "" {
		slog.Error("TELEGRAM_BOT_TOKEN environment variable is required")
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

	// Services
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

	// Seed operator defaults so a fresh store has prices, payment methods
	// and contact info before the first customer shows up
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

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         dsn,
			Environment: os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	tb, err := telegram.New(cfg, telegram.Services{
		Users:        userService,
		Balance:      balanceService,
		Plans:        planService,
		Inventory:    inventoryService,
		Payments:     paymentService,
		Entitlements: entitlementService,
		Topups:       topupService,
		Methods:      methodService,
		Contacts:     contactService,
	})
	if err != nil {
		slog.Error("telegram bot init failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Blocks until interrupted
	tb.Start(ctx)

	slog.Info("shutting down bot...")
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if sqlDB, err := database.DB.DB(); err == nil {
		sqlDB.Close()
	}

	slog.Info("bot stopped")
}
