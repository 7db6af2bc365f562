package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"

	"itemstore/pkg/httperror"

	"github.com/gofiber/fiber/v2"
)

type Request any
type Response any

type HandlerInterface[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, error)
}

// statusCoder lets a response pick its success status; 200 otherwise.
type statusCoder interface {
	StatusCode() int
}

func handle[R Request, Res Response](handler HandlerInterface[R, Res], r *renderer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R

		if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return r.writeError(c, httperror.BadRequest(
				"request.invalid_body",
				"Invalid body",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.ParamsParser(&req); err != nil {
			return r.writeError(c, httperror.BadRequest(
				"request.invalid_path_params",
				"Invalid path params",
				fiber.Map{"error": err.Error()},
			))
		}

		res, err := handler.Handle(c.UserContext(), &req)
		if err != nil {
			return r.writeError(c, err)
		}

		if sc, ok := any(res).(statusCoder); ok {
			c.Status(sc.StatusCode())
		}

		return c.JSON(res)
	}
}

// strictJSONDecoder rejects unknown fields and anything after the first
// JSON value, stray closing brackets included.
func strictJSONDecoder(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after JSON body")
	}

	return nil
}
