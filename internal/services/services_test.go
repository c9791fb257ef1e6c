package services

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/minkhantzaw/vpnshop-backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens a throwaway sqlite store with the same pragmas production
// uses, migrated for all models.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Plan{},
		&models.VPNKey{},
		&models.UserPlan{},
		&models.PendingPayment{},
		&models.TopupOption{},
		&models.PaymentMethod{},
		&models.ContactConfig{},
		&models.AdminUser{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, telegramID int64, balance float64) *models.User {
	t.Helper()
	user := models.User{TelegramID: telegramID, FirstName: "Test", Balance: balance}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedPlan(t *testing.T, db *gorm.DB, name string, credits, durationDays int) *models.Plan {
	t.Helper()
	plan := models.Plan{
		DisplayNumber:   1,
		Name:            name,
		CreditsRequired: credits,
		DurationDays:    durationDays,
		DeviceLimit:     1,
		IsActive:        true,
	}
	require.NoError(t, db.Create(&plan).Error)
	return &plan
}
