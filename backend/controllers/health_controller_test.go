package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"cursifynova/backend/cache"
	"cursifynova/backend/config"
	"cursifynova/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type unreachableStore struct{ *cache.MemoryStore }

func (unreachableStore) Ping(context.Context) error {
	return errors.New("dial tcp 10.0.0.7:6379: connect: connection refused")
}

func healthCheck(t *testing.T, env string) (int, map[string]string) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	hc := NewHealthController(db, &config.Config{AppEnv: env},
		cache.New(unreachableStore{cache.NewMemoryStore()}, utils.NopLogger()))
	app := fiber.New()
	app.Get("/health", hc.Health)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	require.NoError(t, err)
	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body.Data
}

func TestHealthHidesErrorsInProduction(t *testing.T) {
	status, checks := healthCheck(t, "production")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "unavailable", checks["database"])
	assert.Equal(t, "unavailable", checks["cache"])
}

func TestHealthReportsErrorsInDevelopment(t *testing.T) {
	status, checks := healthCheck(t, "development")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Contains(t, checks["cache"], "connection refused")
	assert.NotEqual(t, "unavailable", checks["database"])
}
