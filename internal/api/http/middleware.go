package http

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/guildkit/guild-api/internal/observability"
	"github.com/guildkit/guild-api/pkg/util/errorutil"
)

// RegisterMiddlewares attaches the global pipeline. The request logger is
// outermost so it observes the status the translator actually wrote; the
// translator wraps everything else so no fault escapes untranslated.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, handlers *ErrorHandlers, timeout time.Duration) {
	app.Use(observability.RequestLogger(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorTranslatorMiddleware(logger, metrics, handlers))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorTranslatorMiddleware converts any raised fault into the uniform JSON
// envelope. Declared faults keep their status and description; anything
// uncaught is logged with full detail and reported as a generic 500.
func errorTranslatorMiddleware(logger *zap.Logger, metrics *observability.Metrics, handlers *ErrorHandlers) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
				err = errorutil.NewInternal(fmt.Errorf("panic: %v", r))
			}
			if err == nil {
				return
			}

			apiErr := errorutil.ToAPIError(err)
			if apiErr.HTTPStatus >= 500 {
				logger.Error("500 - Internal Server Error", zap.Error(apiErr))
			}
			metrics.RecordError(c.Path(), c.Method(), apiErr.Name)

			if custom := handlers.find(c.Path(), apiErr.HTTPStatus); custom != nil {
				if customErr := custom(c, apiErr); customErr == nil {
					err = nil
					return
				}
			}

			_ = WriteError(c, apiErr)
			err = nil
		}()
		return c.Next()
	}
}
