package services

import (
	"context"
	"errors"
	"testing"

	"github.com/minkhantzaw/vpnshop-backend/internal/models"
	"github.com/minkhantzaw/vpnshop-backend/internal/qito"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeIssuer struct {
	creds *qito.Credentials
	err   error
	calls int
}

func (f *fakeIssuer) CreateUser(_ context.Context, _, _ int) (*qito.Credentials, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.creds, nil
}

func purchaseFixture(t *testing.T) (*gorm.DB, *EntitlementService, *BalanceService, *InventoryService, *fakeIssuer) {
	t.Helper()
	db := testDB(t)
	balance := NewBalanceService(db)
	inventory := NewInventoryService(db)
	issuer := &fakeIssuer{creds: &qito.Credentials{
		Username: "qito-user",
		Password: "qito-pass",
		Raw:      []byte(`{"username":"qito-user","password":"qito-pass"}`),
	}}
	svc := NewEntitlementService(db, balance, inventory, issuer)
	return db, svc, balance, inventory, issuer
}

func TestPurchaseStatic(t *testing.T) {
	db, svc, balance, inventory, _ := purchaseFixture(t)
	plan := seedPlan(t, db, "Basic", 100, 30)
	seedUser(t, db, 100, 150)
	_, err := inventory.AddKeys(plan.ID, "the-key")
	require.NoError(t, err)

	result, err := svc.PurchaseStatic(100, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "the-key", result.KeyValue)
	require.NotNil(t, result.Entitlement.ExpiryDate)
	require.NotNil(t, result.Entitlement.VPNKeyID)

	credits, err := balance.Get(100)
	require.NoError(t, err)
	assert.Equal(t, 50, credits)

	count, err := inventory.AvailableCount(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestPurchaseStaticInsufficientBalanceLeavesNoTrace(t *testing.T) {
	db, svc, _, inventory, _ := purchaseFixture(t)
	plan := seedPlan(t, db, "Basic", 100, 30)
	seedUser(t, db, 100, 40)
	_, err := inventory.AddKeys(plan.ID, "the-key")
	require.NoError(t, err)

	_, err = svc.PurchaseStatic(100, plan.ID)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	// Nothing committed: key still available, no entitlement row.
	count, err := inventory.AvailableCount(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var entitlements int64
	require.NoError(t, db.Model(&models.UserPlan{}).Count(&entitlements).Error)
	assert.Equal(t, int64(0), entitlements)
}

func TestPurchaseStaticStockExhaustedLeavesBalance(t *testing.T) {
	db, svc, balance, _, _ := purchaseFixture(t)
	plan := seedPlan(t, db, "Basic", 100, 30)
	seedUser(t, db, 100, 150)

	_, err := svc.PurchaseStatic(100, plan.ID)
	require.ErrorIs(t, err, ErrStockExhausted)

	credits, err := balance.Get(100)
	require.NoError(t, err)
	assert.Equal(t, 150, credits)
}

func TestPurchaseStaticInactivePlan(t *testing.T) {
	db, svc, _, _, _ := purchaseFixture(t)
	plan := seedPlan(t, db, "Basic", 100, 30)
	seedUser(t, db, 100, 150)
	require.NoError(t, db.Model(plan).Update("is_active", false).Error)

	_, err := svc.PurchaseStatic(100, plan.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPurchaseDynamic(t *testing.T) {
	db, svc, balance, _, issuer := purchaseFixture(t)
	plan := seedPlan(t, db, "QITO Premium", 200, 30)
	seedUser(t, db, 100, 250)

	result, err := svc.PurchaseDynamic(context.Background(), 100, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "qito-user", result.Username)
	assert.Equal(t, "qito-pass", result.Password)
	assert.Equal(t, "qito-user|qito-pass", result.Entitlement.Credential)
	assert.Empty(t, result.KeyValue)
	assert.Equal(t, 1, issuer.calls)

	credits, err := balance.Get(100)
	require.NoError(t, err)
	assert.Equal(t, 50, credits)
}

func TestPurchaseDynamicIssuerFailureLeavesNoTrace(t *testing.T) {
	db, svc, balance, _, issuer := purchaseFixture(t)
	issuer.err = errors.New("connection refused")
	plan := seedPlan(t, db, "QITO Premium", 200, 30)
	seedUser(t, db, 100, 250)

	_, err := svc.PurchaseDynamic(context.Background(), 100, plan.ID)
	require.ErrorIs(t, err, ErrIssuerUnavailable)

	credits, err := balance.Get(100)
	require.NoError(t, err)
	assert.Equal(t, 250, credits)

	var entitlements int64
	require.NoError(t, db.Model(&models.UserPlan{}).Count(&entitlements).Error)
	assert.Equal(t, int64(0), entitlements)
}

func TestPurchaseDynamicSkipsIssuerWhenBroke(t *testing.T) {
	db, svc, _, _, issuer := purchaseFixture(t)
	plan := seedPlan(t, db, "QITO Premium", 200, 30)
	seedUser(t, db, 100, 10)

	_, err := svc.PurchaseDynamic(context.Background(), 100, plan.ID)
	require.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, 0, issuer.calls)
}

func TestListForUserNewestFirst(t *testing.T) {
	db, svc, _, inventory, _ := purchaseFixture(t)
	plan := seedPlan(t, db, "Basic", 10, 30)
	seedUser(t, db, 100, 100)
	_, err := inventory.AddKeys(plan.ID, "k1\nk2")
	require.NoError(t, err)

	_, err = svc.PurchaseStatic(100, plan.ID)
	require.NoError(t, err)
	_, err = svc.PurchaseStatic(100, plan.ID)
	require.NoError(t, err)

	list, err := svc.ListForUser(100)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Basic", list[0].PlanName)
}
