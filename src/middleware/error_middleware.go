package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/mvjl000/socnet-backend/src/apperror"
	"github.com/mvjl000/socnet-backend/src/lib"
	"go.uber.org/zap"
)

const unknownErrorMessage = "An unknown error occurred!"

// ErrorHandler turns handler errors into {"message": ...} responses. Internal
// causes are logged and never sent to the client.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			message := appErr.Message
			if appErr.Kind == apperror.Internal && message == "" {
				message = unknownErrorMessage
			}
			return c.Status(appErr.Kind.Status()).JSON(lib.MessageResponse(message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(lib.MessageResponse(fiberErr.Message))
		}

		logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(lib.MessageResponse(unknownErrorMessage))
	}
}

// NotFound answers every request no route matched.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Could not find this route."))
}
