package handler_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/codequest-dev/challenges-api/internal/config"
	"github.com/codequest-dev/challenges-api/internal/handler"
)

func newHealthApp(cache *redis.Client) *fiber.App {
	cfg := config.Config{AppName: "Challenges API", AppEnv: "test"}
	app := fiber.New()
	app.Get("/health", handler.HealthCheck(cfg, nil, cache))
	return app
}

func TestHealthCheckReportsServiceInfo(t *testing.T) {
	app := newHealthApp(nil)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Status      string          `json:"status"`
			Service     string          `json:"service"`
			Environment string          `json:"environment"`
			Uptime      string          `json:"uptime"`
			Checks      json.RawMessage `json:"checks"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &body)

	require.True(t, body.Success)
	require.Equal(t, "ok", body.Data.Status)
	require.Equal(t, "Challenges API", body.Data.Service)
	require.Equal(t, "test", body.Data.Environment)
	require.NotEmpty(t, body.Data.Uptime)
}

func TestHealthCheckPingsCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	app := newHealthApp(cache)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Checks map[string]string `json:"checks"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, "ok", body.Data.Checks["cache"])
}

func TestHealthCheckDegradedWhenCacheDown(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })
	mr.Close()

	app := newHealthApp(cache)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
