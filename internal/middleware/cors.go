package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// NewCollectionCORSMiddleware sets permissive CORS headers on every response
// of the collection route and answers OPTIONS with 200.
func NewCollectionCORSMiddleware(allowOrigin string) fiber.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}

	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, allowOrigin)
		c.Set(fiber.HeaderAccessControlAllowMethods, "GET, POST, OPTIONS")
		c.Set(fiber.HeaderAccessControlAllowHeaders, fiber.HeaderContentType)

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusOK)
		}

		return c.Next()
	}
}
