package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mvjl000/socnet-backend/src/apperror"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request. Errors from later handlers are
// passed to errHandler first so the logged status is the one sent.
// Register it outside recover so panics are logged as 500s.
func RequestLogger(logger *zap.Logger, errHandler fiber.ErrorHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		var errKind string
		if err := c.Next(); err != nil {
			var fiberErr *fiber.Error
			if !errors.As(err, &fiberErr) {
				errKind = apperror.KindOf(err).String()
			}
			if herr := errHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		}
		if errKind != "" {
			fields = append(fields, zap.String("error_kind", errKind))
		}
		if id, ok := c.Locals("requestid").(string); ok {
			fields = append(fields, zap.String("request_id", id))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
		return nil
	}
}
