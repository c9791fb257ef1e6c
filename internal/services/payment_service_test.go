package services

import (
	"testing"
	"time"

	"github.com/minkhantzaw/vpnshop-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentApproveCreditsOnce(t *testing.T) {
	db := testDB(t)
	balance := NewBalanceService(db)
	svc := NewPaymentService(db, balance)
	seedUser(t, db, 100, 0)

	payment, err := svc.Create(100, 200, 19000)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)

	approved, err := svc.Approve(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusApproved, approved.Status)
	require.NotNil(t, approved.ProcessedAt)

	credits, err := balance.Get(100)
	require.NoError(t, err)
	assert.Equal(t, 200, credits)

	// Approved is terminal; a second approve must not credit again.
	_, err = svc.Approve(payment.ID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	credits, err = balance.Get(100)
	require.NoError(t, err)
	assert.Equal(t, 200, credits)
}

func TestPaymentDenyIsTerminal(t *testing.T) {
	db := testDB(t)
	balance := NewBalanceService(db)
	svc := NewPaymentService(db, balance)
	seedUser(t, db, 100, 0)

	payment, err := svc.Create(100, 100, 10000)
	require.NoError(t, err)

	denied, err := svc.Deny(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusDenied, denied.Status)

	// Denied payments never become approvable.
	_, err = svc.Approve(payment.ID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	credits, err := balance.Get(100)
	require.NoError(t, err)
	assert.Equal(t, 0, credits)
}

func TestPaymentApproveUnknown(t *testing.T) {
	db := testDB(t)
	svc := NewPaymentService(db, NewBalanceService(db))

	_, err := svc.Approve(12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttachProofOnlyWhilePending(t *testing.T) {
	db := testDB(t)
	balance := NewBalanceService(db)
	svc := NewPaymentService(db, balance)
	seedUser(t, db, 100, 0)

	payment, err := svc.Create(100, 100, 10000)
	require.NoError(t, err)

	require.NoError(t, svc.AttachProof(payment.ID, "file-abc"))
	got, err := svc.Get(payment.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ProofFileID)
	assert.Equal(t, "file-abc", *got.ProofFileID)

	_, err = svc.Deny(payment.ID)
	require.NoError(t, err)

	err = svc.AttachProof(payment.ID, "file-late")
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestLatestPendingPicksNewest(t *testing.T) {
	db := testDB(t)
	svc := NewPaymentService(db, NewBalanceService(db))
	seedUser(t, db, 100, 0)

	first, err := svc.Create(100, 100, 10000)
	require.NoError(t, err)
	second, err := svc.Create(100, 200, 19000)
	require.NoError(t, err)

	// created_at ties are possible within a test run; force an order.
	require.NoError(t, db.Model(&models.PendingPayment{}).
		Where("id = ?", first.ID).
		Update("created_at", first.CreatedAt.Add(-time.Second)).Error)

	latest, err := svc.LatestPending(100)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	_, err = svc.LatestPending(999)
	assert.ErrorIs(t, err, ErrNotFound)
}
