package server

import (
	"errors"

	"itemstore/pkg/httperror"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type renderer struct {
	// verbose exposes wrapped store errors to clients.
	verbose bool
}

type sqlStater interface {
	SQLState() string
}

func (r *renderer) writeError(c *fiber.Ctx, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		payload := fiber.Map{
			"code":  httpErr.Code,
			"error": httpErr.Message,
		}

		if httpErr.Details != nil {
			payload["details"] = httpErr.Details
		}

		if r.verbose && httpErr.Err != nil {
			payload["details"] = causeDetails(httpErr.Err)
		}

		if httpErr.Status >= fiber.StatusInternalServerError {
			zap.L().Error("Handler returned server error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		} else {
			zap.L().Warn("Handler returned client error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		}

		return c.Status(httpErr.Status).JSON(payload)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		zap.L().Warn("Fiber error", zap.Int("status", fiberErr.Code), zap.String("message", fiberErr.Message))
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"code":  "request.invalid",
			"error": fiberErr.Message,
		})
	}

	zap.L().Error("Unhandled error", zap.Error(err))
	payload := fiber.Map{
		"code":  "internal_server_error",
		"error": "Internal server error",
	}
	if r.verbose {
		payload["details"] = causeDetails(err)
	}

	return c.Status(fiber.StatusInternalServerError).JSON(payload)
}

func causeDetails(err error) fiber.Map {
	details := fiber.Map{"message": err.Error()}

	var stater sqlStater
	if errors.As(err, &stater) {
		details["code"] = stater.SQLState()
	}

	return details
}

func methodNotAllowed(r *renderer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return r.writeError(c, httperror.MethodNotAllowed(
			"request.method_not_allowed",
			"Method not allowed",
			nil,
		))
	}
}
