package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopupSeedDefaultsOnce(t *testing.T) {
	db := testDB(t)
	svc := NewTopupService(db)

	require.NoError(t, svc.SeedDefaults())
	require.NoError(t, svc.SeedDefaults())

	options, err := svc.ListActive()
	require.NoError(t, err)
	require.Len(t, options, 4)
	// Cheapest first.
	assert.Equal(t, 100, options[0].Credits)
	assert.Equal(t, 10000, options[0].PriceMMK)
	assert.Equal(t, 500, options[3].Credits)
}

func TestTopupFindByCredits(t *testing.T) {
	db := testDB(t)
	svc := NewTopupService(db)
	require.NoError(t, svc.SeedDefaults())

	option, err := svc.FindByCredits(200)
	require.NoError(t, err)
	assert.Equal(t, 19000, option.PriceMMK)

	_, err = svc.FindByCredits(777)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPaymentMethodSeedDefaults(t *testing.T) {
	db := testDB(t)
	svc := NewPaymentMethodService(db)

	require.NoError(t, svc.SeedDefaults())
	methods, err := svc.ListActive()
	require.NoError(t, err)
	assert.Len(t, methods, 4)
}

func TestContactSeedAndUpdate(t *testing.T) {
	db := testDB(t)
	svc := NewContactService(db)

	require.NoError(t, svc.SeedDefaults())
	contacts, err := svc.ListActive()
	require.NoError(t, err)
	require.Len(t, contacts, 7)
	assert.Equal(t, "telegram", contacts[0].ContactType)

	first := contacts[0]
	first.ContactValue = "@NewSupportBot"
	first.IsActive = false
	require.NoError(t, svc.Update(&first))

	active, err := svc.ListActive()
	require.NoError(t, err)
	assert.Len(t, active, 6)
}
