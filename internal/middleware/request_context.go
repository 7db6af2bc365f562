package middleware

import (
	"strings"

	"itemstore/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// NewRequestContextMiddleware attaches trace and correlation ids to the
// request context, taking them from the incoming headers when present.
func NewRequestContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := strings.TrimSpace(c.Get(HeaderRequestID))
		if traceID == "" {
			traceID = uuid.NewString()
		}

		correlationID := strings.TrimSpace(c.Get(HeaderCorrelationID))
		if correlationID == "" {
			correlationID = traceID
		}

		c.SetUserContext(events.WithTrace(c.UserContext(), traceID, correlationID))
		c.Set(HeaderRequestID, traceID)

		return c.Next()
	}
}
