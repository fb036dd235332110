package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/codequest-dev/challenges-api/internal/config"
	"github.com/codequest-dev/challenges-api/internal/utils"
)

var startedAt = time.Now()

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Service     string            `json:"service"`
	Environment string            `json:"environment"`
	Uptime      string            `json:"uptime"`
	Checks      map[string]string `json:"checks,omitempty"`
}

// HealthCheck returns a handler that reports application health information.
// The database and cache are pinged when present; a failed ping degrades the
// reported status and flips the response to 503.
func HealthCheck(cfg config.Config, db *gorm.DB, cache *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		checks := make(map[string]string)
		healthy := true

		if db != nil {
			checks["database"] = "ok"
			if sqlDB, err := db.DB(); err != nil {
				checks["database"] = err.Error()
				healthy = false
			} else if err := sqlDB.PingContext(ctx); err != nil {
				checks["database"] = err.Error()
				healthy = false
			}
		}

		if cache != nil {
			checks["cache"] = "ok"
			if err := cache.Ping(ctx).Err(); err != nil {
				checks["cache"] = err.Error()
				healthy = false
			}
		}

		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Uptime:      time.Since(startedAt).Round(time.Second).String(),
			Checks:      checks,
		}

		if !healthy {
			payload.Status = "degraded"
			return c.Status(fiber.StatusServiceUnavailable).JSON(payload)
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
