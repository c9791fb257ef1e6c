package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/minkhantzaw/vpnshop-backend/internal/models"
	"github.com/minkhantzaw/vpnshop-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", filepath.Join(t.TempDir(), "test.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Plan{}))

	h := NewPlanHandler(services.NewPlanService(db))
	app := fiber.New()
	app.Get("/plans", h.List)
	app.Get("/plans/:id", h.Get)
	app.Post("/plans", h.Create)
	app.Put("/plans/:id", h.Update)
	app.Delete("/plans/:id", h.Delete)
	return app, db
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestPlanCreateAndGet(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/plans",
		`{"display_number":1,"name":"Basic","credits_required":100,"duration_days":30}`), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created models.Plan
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "Basic", created.Name)
	assert.True(t, created.IsActive)
	assert.Equal(t, 1, created.DeviceLimit)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/plans/%d", created.ID), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPlanCreateValidation(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/plans",
		`{"name":"","credits_required":0,"duration_days":0}`), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPlanGetUnknownIs404(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/plans/999", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/plans/abc", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPlanDelete(t *testing.T) {
	app, db := testApp(t)
	plan := models.Plan{Name: "Basic", CreditsRequired: 100, DurationDays: 30, DeviceLimit: 1, IsActive: true}
	require.NoError(t, db.Create(&plan).Error)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/plans/%d", plan.ID), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/plans/%d", plan.ID), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
