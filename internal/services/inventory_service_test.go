package services

import (
	"sync"
	"testing"
	"time"

	"github.com/minkhantzaw/vpnshop-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddKeysTrimsAndSkipsBlankLines(t *testing.T) {
	db := testDB(t)
	svc := NewInventoryService(db)
	plan := seedPlan(t, db, "Basic", 100, 30)

	added, err := svc.AddKeys(plan.ID, "  key-one  \n\nkey-two\n   \nkey-three\n")
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	keys, err := svc.Available(plan.ID)
	require.NoError(t, err)
	require.Len(t, keys, 3)
	assert.Equal(t, "key-one", keys[0].KeyValue)
}

func TestAddKeysKeepsDuplicateSecrets(t *testing.T) {
	db := testDB(t)
	svc := NewInventoryService(db)
	plan := seedPlan(t, db, "Basic", 100, 30)

	added, err := svc.AddKeys(plan.ID, "same\nsame\nsame")
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	count, err := svc.AvailableCount(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestGenerateKeys(t *testing.T) {
	db := testDB(t)
	svc := NewInventoryService(db)
	plan := seedPlan(t, db, "Basic", 100, 30)

	values, err := svc.GenerateKeys(plan.ID, 5, 32)
	require.NoError(t, err)
	require.Len(t, values, 5)
	for _, v := range values {
		assert.Len(t, v, 32)
	}

	count, err := svc.AvailableCount(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestAssignOldestFirst(t *testing.T) {
	db := testDB(t)
	svc := NewInventoryService(db)
	plan := seedPlan(t, db, "Basic", 100, 30)

	base := time.Now().Add(-time.Hour)
	for i, value := range []string{"K1", "K2", "K3"} {
		key := models.VPNKey{PlanID: plan.ID, KeyValue: value}
		require.NoError(t, db.Create(&key).Error)
		require.NoError(t, db.Model(&key).Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	for _, want := range []string{"K1", "K2", "K3"} {
		key, err := svc.Assign(db, plan.ID, 100)
		require.NoError(t, err)
		assert.Equal(t, want, key.KeyValue)
		assert.True(t, key.IsUsed)
		require.NotNil(t, key.UsedByUserID)
		assert.Equal(t, int64(100), *key.UsedByUserID)
		require.NotNil(t, key.UsedAt)
	}

	_, err := svc.Assign(db, plan.ID, 100)
	assert.ErrorIs(t, err, ErrStockExhausted)
}

func TestAssignNeverHandsOutSameKeyTwice(t *testing.T) {
	db := testDB(t)
	svc := NewInventoryService(db)
	plan := seedPlan(t, db, "Basic", 100, 30)

	_, err := svc.AddKeys(plan.ID, "A\nB\nC\nD\nE")
	require.NoError(t, err)

	var mu sync.Mutex
	seen := make(map[string]int)
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			key, err := svc.Assign(db, plan.ID, userID)
			if err != nil {
				return
			}
			mu.Lock()
			seen[key.KeyValue]++
			mu.Unlock()
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Len(t, seen, 5)
	for value, n := range seen {
		assert.Equal(t, 1, n, "key %s assigned more than once", value)
	}
}

func TestLowStock(t *testing.T) {
	db := testDB(t)
	svc := NewInventoryService(db)
	scarce := seedPlan(t, db, "Scarce", 100, 30)
	stocked := seedPlan(t, db, "Stocked", 100, 30)

	_, err := svc.AddKeys(scarce.ID, "k1\nk2")
	require.NoError(t, err)
	_, err = svc.GenerateKeys(stocked.ID, 15, 16)
	require.NoError(t, err)

	low, err := svc.LowStock(10)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, scarce.ID, low[0].PlanID)
	assert.Equal(t, int64(2), low[0].AvailableKeys)
}

func TestReclaimExpiredDeletesEntitlementAndKey(t *testing.T) {
	db := testDB(t)
	svc := NewInventoryService(db)
	plan := seedPlan(t, db, "Basic", 100, 30)
	seedUser(t, db, 100, 0)

	expired := models.VPNKey{PlanID: plan.ID, KeyValue: "expired-key", IsUsed: true}
	require.NoError(t, db.Create(&expired).Error)
	active := models.VPNKey{PlanID: plan.ID, KeyValue: "active-key", IsUsed: true}
	require.NoError(t, db.Create(&active).Error)

	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)
	require.NoError(t, db.Create(&models.UserPlan{
		UserID: 100, PlanID: plan.ID, VPNKeyID: &expired.ID,
		ExpiryDate: &past, Status: models.UserPlanStatusActive,
	}).Error)
	require.NoError(t, db.Create(&models.UserPlan{
		UserID: 100, PlanID: plan.ID, VPNKeyID: &active.ID,
		ExpiryDate: &future, Status: models.UserPlanStatusActive,
	}).Error)

	removed, details, err := svc.ReclaimExpired()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	require.Len(t, details, 1)
	assert.Equal(t, "expired-key", details[0].KeyValue)

	var keyCount, planCount int64
	require.NoError(t, db.Model(&models.VPNKey{}).Count(&keyCount).Error)
	require.NoError(t, db.Model(&models.UserPlan{}).Count(&planCount).Error)
	assert.Equal(t, int64(1), keyCount)
	assert.Equal(t, int64(1), planCount)
}

func TestReclaimOrphansDeletesUnreferencedKeys(t *testing.T) {
	db := testDB(t)
	svc := NewInventoryService(db)
	plan := seedPlan(t, db, "Basic", 100, 30)
	seedUser(t, db, 100, 0)

	referenced := models.VPNKey{PlanID: plan.ID, KeyValue: "referenced", IsUsed: true}
	require.NoError(t, db.Create(&referenced).Error)
	usedOrphan := models.VPNKey{PlanID: plan.ID, KeyValue: "used-orphan", IsUsed: true}
	require.NoError(t, db.Create(&usedOrphan).Error)
	// Never assigned, never referenced; still an orphan.
	freshOrphan := models.VPNKey{PlanID: plan.ID, KeyValue: "fresh-orphan"}
	require.NoError(t, db.Create(&freshOrphan).Error)

	future := time.Now().Add(24 * time.Hour)
	require.NoError(t, db.Create(&models.UserPlan{
		UserID: 100, PlanID: plan.ID, VPNKeyID: &referenced.ID,
		ExpiryDate: &future, Status: models.UserPlanStatusActive,
	}).Error)

	removed, keys, err := svc.ReclaimOrphans()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, k.KeyValue)
	}
	assert.ElementsMatch(t, []string{"used-orphan", "fresh-orphan"}, values)

	var remaining []models.VPNKey
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "referenced", remaining[0].KeyValue)
}

func TestExpiringSoon(t *testing.T) {
	db := testDB(t)
	svc := NewInventoryService(db)
	plan := seedPlan(t, db, "Basic", 100, 30)
	seedUser(t, db, 100, 0)

	soon := time.Now().Add(48 * time.Hour)
	far := time.Now().Add(10 * 24 * time.Hour)
	require.NoError(t, db.Create(&models.UserPlan{
		UserID: 100, PlanID: plan.ID, ExpiryDate: &soon, Status: models.UserPlanStatusActive,
	}).Error)
	require.NoError(t, db.Create(&models.UserPlan{
		UserID: 100, PlanID: plan.ID, ExpiryDate: &far, Status: models.UserPlanStatusActive,
	}).Error)

	list, err := svc.ExpiringSoon(3)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(100), list[0].UserID)
}

func TestStatistics(t *testing.T) {
	db := testDB(t)
	svc := NewInventoryService(db)
	plan := seedPlan(t, db, "Basic", 100, 30)

	_, err := svc.AddKeys(plan.ID, "a\nb\nc")
	require.NoError(t, err)
	_, err = svc.Assign(db, plan.ID, 100)
	require.NoError(t, err)

	perPlan, global, err := svc.Statistics()
	require.NoError(t, err)
	require.Len(t, perPlan, 1)
	assert.Equal(t, int64(3), perPlan[0].TotalKeys)
	assert.Equal(t, int64(2), perPlan[0].AvailableKeys)
	assert.Equal(t, int64(1), perPlan[0].UsedKeys)
	assert.Equal(t, int64(1), global.ActivePlans)
	assert.Equal(t, int64(3), global.TotalKeys)
}
