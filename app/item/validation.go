package item

import (
	"errors"

	"itemstore/pkg/httperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateRequest(op string, req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return httperror.BadRequest(
			"item."+op+".validation_failed",
			"Name and description are required",
			ve.Error(),
		)
	}

	return httperror.InternalServerError(
		"item."+op+".validation_error",
		"An unexpected validation error occurred",
		nil,
	).Wrap(err)
}
