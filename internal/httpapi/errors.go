package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"newsthreads/pkg/apperr"
	"newsthreads/pkg/logger"
)

// NewErrorHandler builds a fiber.Config ErrorHandler that maps
// *apperr.AppError to its carried HTTP status, and a bare *fiber.Error to
// its own code, logging anything else as an internal error (spec.md §7).
func NewErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ae *apperr.AppError
		if errors.As(err, &ae) {
			// A 204 must never carry a body (RFC 7231 §6.3.5), regardless of
			// whatever explanatory Message the AppError carries for logging.
			if ae.Message == "" || ae.Code == fiber.StatusNoContent {
				return c.SendStatus(ae.Code)
			}
			return prettyJSON(c, ae.Code, fiber.Map{"error": ae.Message})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return prettyJSON(c, fe.Code, fiber.Map{"error": fe.Message})
		}

		log.Error("unhandled request error", "error", err, "path", c.Path())
		return prettyJSON(c, fiber.StatusInternalServerError, fiber.Map{"error": "internal error"})
	}
}
