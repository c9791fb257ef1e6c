package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceCreditRoundsToWholeUnits(t *testing.T) {
	db := testDB(t)
	svc := NewBalanceService(db)
	seedUser(t, db, 100, 0)

	// Fractional amounts snap to the nearest whole credit on every write.
	require.NoError(t, svc.Credit(100, 10.4))
	credits, err := svc.Get(100)
	require.NoError(t, err)
	assert.Equal(t, 10, credits)

	require.NoError(t, svc.Credit(100, 0.6))
	credits, err = svc.Get(100)
	require.NoError(t, err)
	assert.Equal(t, 11, credits)
}

func TestBalanceCreditNoDriftOverManyWrites(t *testing.T) {
	db := testDB(t)
	svc := NewBalanceService(db)
	seedUser(t, db, 100, 0)

	for i := 0; i < 50; i++ {
		require.NoError(t, svc.Credit(100, 1.0))
	}
	credits, err := svc.Get(100)
	require.NoError(t, err)
	assert.Equal(t, 50, credits)
}

func TestBalanceCreditUnknownUser(t *testing.T) {
	db := testDB(t)
	svc := NewBalanceService(db)

	err := svc.Credit(999, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDebitIfEnough(t *testing.T) {
	db := testDB(t)
	svc := NewBalanceService(db)
	seedUser(t, db, 100, 30)

	require.NoError(t, svc.DebitIfEnough(db, 100, 30))
	credits, err := svc.Get(100)
	require.NoError(t, err)
	assert.Equal(t, 0, credits)

	// Guard refuses once the balance no longer covers the amount.
	err = svc.DebitIfEnough(db, 100, 1)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestDebitIfEnoughInsufficientLeavesBalanceUntouched(t *testing.T) {
	db := testDB(t)
	svc := NewBalanceService(db)
	seedUser(t, db, 100, 20)

	err := svc.DebitIfEnough(db, 100, 50)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	credits, err := svc.Get(100)
	require.NoError(t, err)
	assert.Equal(t, 20, credits)
}
