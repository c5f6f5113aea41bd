package middleware

import (
	"time"

	"otp-gateway/logger"
	log_model "otp-gateway/models/log"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger records method, path, status and latency of every request
// through the async logger. Observability only, no API contract.
func RequestLogger(asyncLogger *logger.AsyncLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		asyncLogger.Log(log_model.Log{
			Method:     c.Method(),
			URL:        c.OriginalURL(),
			ClientIP:   c.IP(),
			StatusCode: c.Response().StatusCode(),
			LatencyMS:  time.Since(start).Milliseconds(),
			CreatedAt:  start,
		})

		return err
	}
}
