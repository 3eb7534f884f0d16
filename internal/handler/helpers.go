package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hirelens/hirelens-api/internal/middleware"
	"github.com/hirelens/hirelens-api/internal/utils"
	"github.com/hirelens/hirelens-api/internal/validation"
)

func userIDFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(string); ok {
			return strings.TrimSpace(id)
		}
	}
	return ""
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// domainBadRequest translates a domain validation failure into a 400 carrying
// the exact domain message. Returns false when err is not a validation error.
func domainBadRequest(c *fiber.Ctx, err error) (bool, error) {
	if validation.IsDomainError(err) {
		return true, utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	return false, nil
}
