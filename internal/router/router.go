package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hirelens/hirelens-api/internal/config"
	"github.com/hirelens/hirelens-api/internal/handler"
	"github.com/hirelens/hirelens-api/internal/middleware"
	"github.com/hirelens/hirelens-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AssessmentHandler *handler.AssessmentHandler
	SubmissionHandler *handler.SubmissionHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AssessmentHandler != nil {
		assessments := api.Group("/assessments", jwtMiddleware)
		deps.AssessmentHandler.Register(assessments)
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware,
			middleware.RateLimit("submissions", 60, time.Minute))
		deps.SubmissionHandler.Register(submissions)
	}
}
