// Package httperror carries the status, machine code and client-facing
// message of a failed request from handlers to the transport layer.
package httperror

import (
	"fmt"
	"net/http"
)

type Error struct {
	Status  int
	Code    string
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap attaches the underlying cause. The cause is only rendered to clients
// when the server runs with debug error verbosity.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

func New(status int, code, message string, details any) *Error {
	return &Error{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func BadRequest(code, message string, details any) *Error {
	return New(http.StatusBadRequest, code, message, details)
}

func MethodNotAllowed(code, message string, details any) *Error {
	return New(http.StatusMethodNotAllowed, code, message, details)
}

func InternalServerError(code, message string, details any) *Error {
	return New(http.StatusInternalServerError, code, message, details)
}

func ServiceUnavailable(code, message string, details any) *Error {
	return New(http.StatusServiceUnavailable, code, message, details)
}
