package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/minkhantzaw/vpnshop-backend/internal/config"
	"github.com/minkhantzaw/vpnshop-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiry:     time.Hour,
		AdminUsername: "admin",
		AdminPassword: "hunter2",
	}
}

func TestBootstrapAndLogin(t *testing.T) {
	db := testDB(t)
	svc := NewAuthService(db, authConfig())

	require.NoError(t, svc.Bootstrap())
	// Bootstrap is first-run only.
	require.NoError(t, svc.Bootstrap())

	var count int64
	require.NoError(t, db.Model(&models.AdminUser{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	signed, err := svc.Login("admin", "hunter2")
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "admin", claims["sub"])
	assert.Equal(t, "admin", claims["role"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := testDB(t)
	svc := NewAuthService(db, authConfig())
	require.NoError(t, svc.Bootstrap())

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login("nobody", "hunter2")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestBootstrapSkippedWithoutPassword(t *testing.T) {
	db := testDB(t)
	cfg := authConfig()
	cfg.AdminPassword = ""
	svc := NewAuthService(db, cfg)

	require.NoError(t, svc.Bootstrap())

	var count int64
	require.NoError(t, db.Model(&models.AdminUser{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
