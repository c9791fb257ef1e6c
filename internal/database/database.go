package database

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/minkhantzaw/vpnshop-backend/internal/config"
	"github.com/minkhantzaw/vpnshop-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	default:
		// WAL mode plus a busy timeout so the bot, the admin panel and the
		// sweeper can share one store file without immediate lock failures.
		dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", cfg.DBPath)
		dialector = sqlite.Open(dsn)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.DBDriver == "postgres" {
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	} else {
		// A single connection serializes writers in-process; cross-process
		// contention is handled by the busy timeout.
		sqlDB.SetMaxOpenConns(1)
	}

	slog.Info("database connected", "driver", cfg.DBDriver)
	return nil
}

// Reconnect closes the current connection and reopens the store. Used after a
// backup restore replaces the sqlite file underneath us.
func Reconnect(cfg *config.Config) error {
	if DB != nil {
		if sqlDB, err := DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if err := Connect(cfg); err != nil {
		return err
	}
	return Migrate()
}

func Migrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Plan{},
		&models.VPNKey{},
		&models.UserPlan{},
		&models.PendingPayment{},
		&models.TopupOption{},
		&models.PaymentMethod{},
		&models.ContactConfig{},
		&models.AdminUser{},
		&models.SystemLog{},
	)
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// WithBusyRetry retries fn a bounded number of times when the store reports a
// lock. Any other error, and the final busy error, are propagated as-is.
func WithBusyRetry(fn func() error) error {
	const attempts = 3
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !isBusy(err) {
			return err
		}
		time.Sleep(100 * time.Millisecond)
	}
	return err
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
