package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureExistsCreatesWithZeroBalance(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(db)

	user, created, err := svc.EnsureExists(100, "alice", "Alice", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(100), user.TelegramID)
	assert.Equal(t, float64(0), user.Balance)
}

func TestEnsureExistsIsIdempotent(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(db)
	balance := NewBalanceService(db)

	_, created, err := svc.EnsureExists(100, "alice", "Alice", "")
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, balance.Credit(100, 50))

	// A later contact must not reset the balance or duplicate the row.
	user, created, err := svc.EnsureExists(100, "alice_new", "Alice", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, float64(50), user.Balance)

	users, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestGetUnknownUser(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(db)

	_, err := svc.Get(999)
	assert.ErrorIs(t, err, ErrNotFound)
}
