package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"recordapi/internal/validation"
)

const payloadLocalKey = "payload"

// Validate decodes the request body into P and rejects the request before the
// route handler runs when the payload does not satisfy P's rules. The accepted
// payload is stored in locals for the handler.
func Validate[P any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := validation.Decode[P](c.Body())
		if err != nil {
			var verr *validation.Error
			if errors.As(err, &verr) {
				return writeValidationError(c, verr.Detail)
			}
			return writeError(c, fiber.StatusBadRequest, "INVALID_JSON", "request body must be a JSON object")
		}
		c.Locals(payloadLocalKey, p)
		return c.Next()
	}
}

func payload[P any](c *fiber.Ctx) (P, bool) {
	p, ok := c.Locals(payloadLocalKey).(P)
	return p, ok
}
