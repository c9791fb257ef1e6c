package sweep

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/minkhantzaw/vpnshop-backend/internal/models"
	"github.com/minkhantzaw/vpnshop-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type captureNotifier struct {
	messages []string
}

func (n *captureNotifier) Notify(_ context.Context, text string) error {
	n.messages = append(n.messages, text)
	return nil
}

func sweepDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", filepath.Join(t.TempDir(), "test.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Plan{}, &models.VPNKey{}, &models.UserPlan{}))
	return db
}

func TestSweepReclaimsAndReports(t *testing.T) {
	db := sweepDB(t)
	plan := models.Plan{Name: "Basic", CreditsRequired: 100, DurationDays: 30, DeviceLimit: 1, IsActive: true}
	require.NoError(t, db.Create(&plan).Error)
	require.NoError(t, db.Create(&models.User{TelegramID: 100, FirstName: "Alice"}).Error)

	expiredKey := models.VPNKey{PlanID: plan.ID, KeyValue: "expired", IsUsed: true}
	require.NoError(t, db.Create(&expiredKey).Error)
	orphanKey := models.VPNKey{PlanID: plan.ID, KeyValue: "orphan"}
	require.NoError(t, db.Create(&orphanKey).Error)
	soonKey := models.VPNKey{PlanID: plan.ID, KeyValue: "soon", IsUsed: true}
	require.NoError(t, db.Create(&soonKey).Error)

	past := time.Now().Add(-time.Hour)
	soon := time.Now().Add(48 * time.Hour)
	require.NoError(t, db.Create(&models.UserPlan{
		UserID: 100, PlanID: plan.ID, VPNKeyID: &expiredKey.ID,
		ExpiryDate: &past, Status: models.UserPlanStatusActive,
	}).Error)
	require.NoError(t, db.Create(&models.UserPlan{
		UserID: 100, PlanID: plan.ID, VPNKeyID: &soonKey.ID,
		ExpiryDate: &soon, Status: models.UserPlanStatusActive,
	}).Error)

	notifier := &captureNotifier{}
	sweeper := New(services.NewInventoryService(db), notifier)

	result, err := sweeper.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.ExpiredRemoved)
	assert.Equal(t, 1, result.OrphansRemoved)
	assert.Len(t, result.ExpiringSoon, 1)
	assert.Equal(t, int64(1), result.Stats.TotalKeys)

	// One cleanup report, one expiry warning.
	require.Len(t, notifier.messages, 2)
	assert.True(t, strings.Contains(notifier.messages[0], "expired"))
	assert.True(t, strings.Contains(notifier.messages[1], "Expiring Soon"))
}

func TestSweepQuietWhenNothingToDo(t *testing.T) {
	db := sweepDB(t)
	notifier := &captureNotifier{}
	sweeper := New(services.NewInventoryService(db), notifier)

	result, err := sweeper.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExpiredRemoved)
	assert.Equal(t, 0, result.OrphansRemoved)
	assert.Empty(t, notifier.messages)
}
