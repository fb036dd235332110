package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/codequest-dev/challenges-api/internal/config"
	"github.com/codequest-dev/challenges-api/internal/handler"
	"github.com/codequest-dev/challenges-api/internal/middleware"
	"github.com/codequest-dev/challenges-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	QuestionHandler   *handler.QuestionHandler
	SubmissionHandler *handler.SubmissionHandler
	SeasonHandler     *handler.SeasonHandler
	JWTMiddleware     fiber.Handler
	DB                *gorm.DB
	Cache             *redis.Client
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.DB, deps.Cache))

	// Without a configured JWT middleware the write endpoints are left open,
	// which is only acceptable for local development.
	jwtMiddleware := deps.JWTMiddleware
	adminAuth := []fiber.Handler{}
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	} else {
		adminAuth = append(adminAuth, jwtMiddleware, middleware.RequireRole("admin"))
	}

	if deps.QuestionHandler != nil {
		questions := api.Group("/questions")
		deps.QuestionHandler.Register(questions, adminAuth...)
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware,
			middleware.RateLimit("submissions", cfg.SubmitRateMax, cfg.SubmitRateWindow))
		deps.SubmissionHandler.Register(submissions)
	}

	if deps.SeasonHandler != nil {
		seasons := api.Group("/seasons")
		deps.SeasonHandler.Register(seasons, adminAuth...)

		users := api.Group("/users")
		deps.SeasonHandler.RegisterUserRoutes(users)
	}
}
