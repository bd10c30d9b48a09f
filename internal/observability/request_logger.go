package observability

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger records method, base URL and final status for every request
// after the response is fully determined. It must be registered outside the
// error-translating middleware so faulted requests are logged with the status
// they actually produced. The response itself is never altered here.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		baseURL := c.BaseURL() + c.Path()

		logger.Info(fmt.Sprintf("%s @ %s -> %d", c.Method(), baseURL, status),
			zap.String("method", c.Method()),
			zap.String("url", baseURL),
			zap.Int("status", status),
		)
		metrics.RecordRequest(c.Path(), c.Method(), status)

		return err
	}
}
