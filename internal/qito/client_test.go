package qito

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	var got createRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"username":"u123","password":"p456","id":42}`))
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second)
	creds, err := client.CreateUser(context.Background(), 3, 30)
	require.NoError(t, err)

	assert.Equal(t, "u123", creds.Username)
	assert.Equal(t, "p456", creds.Password)
	assert.JSONEq(t, `{"username":"u123","password":"p456","id":42}`, string(creds.Raw))

	assert.Equal(t, 3, got.DeviceLimit)
	expiry, err := time.Parse("2006-01-02T15:04", got.ExpireDate)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), expiry, 2*time.Minute)
}

func TestCreateUserNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second)
	_, err := client.CreateUser(context.Background(), 1, 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestCreateUserTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client := New(srv.URL, time.Second)
	_, err := client.CreateUser(context.Background(), 1, 7)
	require.Error(t, err)
}
