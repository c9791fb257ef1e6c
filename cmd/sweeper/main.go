package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/minkhantzaw/vpnshop-backend/internal/config"
	"github.com/minkhantzaw/vpnshop-backend/internal/database"
	"github.com/minkhantzaw/vpnshop-backend/internal/logging"
	"github.com/minkhantzaw/vpnshop-backend/internal/services"
	"github.com/minkhantzaw/vpnshop-backend/internal/sweep"
	"github.com/minkhantzaw/vpnshop-backend/internal/telegram"
)

// Daily maintenance pass, intended for cron:
//
//	0 2 * * * /usr/local/bin/sweeper >> /var/log/vpnshop_sweeper.log 2>&1
func main() {
	logging.Setup()

	_ = godotenv.Load()

	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	var notifier sweep.Notifier
	if cfg.BotToken != "" && cfg.AdminTelegramID != 0 {
		n, err := telegram.NewAdminNotifier(cfg.BotToken, cfg.AdminTelegramID)
		if err != nil {
			slog.Warn("admin notifier unavailable, reports go to the log only", "error", err)
		} else {
			notifier = n
		}
	}

	sweeper := sweep.New(services.NewInventoryService(database.DB), notifier)

	slog.Info("starting sweep")
	result, err := sweeper.Run(context.Background())
	if err != nil {
		slog.Error("sweep failed", "error", err)
		os.Exit(1)
	}
	slog.Info("sweep completed",
		"expired_removed", result.ExpiredRemoved,
		"orphans_removed", result.OrphansRemoved,
		"expiring_soon", len(result.ExpiringSoon))

	if sqlDB, err := database.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
