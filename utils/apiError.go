package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type ErrorKind string

const (
	ValidationError   ErrorKind = "ValidationError"
	ConflictError     ErrorKind = "ConflictError"
	UnauthorizedError ErrorKind = "UnauthorizedError"
	InternalError     ErrorKind = "InternalError"
)

var kindStatus = map[ErrorKind]int{
	ValidationError:   fiber.StatusBadRequest,
	ConflictError:     fiber.StatusConflict,
	UnauthorizedError: fiber.StatusUnauthorized,
	InternalError:     fiber.StatusInternalServerError,
}

// APIError is what handlers return; NewErrorHandler turns it into the JSON
// error envelope.
type APIError struct {
	Kind    ErrorKind
	Message string
	Code    string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

func (e *APIError) StatusCode() int {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return fiber.StatusInternalServerError
}

func NewAPIError(kind ErrorKind, code, message string, err error) *APIError {
	return &APIError{Kind: kind, Message: message, Code: code, Err: err}
}

func NewValidationError(code, message string) *APIError {
	return NewAPIError(ValidationError, code, message, nil)
}

func NewConflictError(code, message string) *APIError {
	return NewAPIError(ConflictError, code, message, nil)
}

func NewUnauthorizedError(code, message string) *APIError {
	return NewAPIError(UnauthorizedError, code, message, nil)
}

func NewInternalError(code, message string, err error) *APIError {
	return NewAPIError(InternalError, code, message, err)
}

// IsKind reports whether err carries an *APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
