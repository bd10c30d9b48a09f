package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// APIError is a fault with a declared HTTP meaning. It propagates unchanged
// through inner layers and is translated to the wire envelope only at the
// outermost middleware.
type APIError struct {
	Name       string
	Message    string
	HTTPStatus int
	Headers    map[string]string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// WithHeader attaches a response header to carry to the client.
func (e *APIError) WithHeader(key, value string) *APIError {
	if e.Headers == nil {
		e.Headers = map[string]string{}
	}
	e.Headers[key] = value
	return e
}

// New constructs an APIError with the standard name for the status.
func New(status int, message string) *APIError {
	return &APIError{Name: http.StatusText(status), Message: message, HTTPStatus: status}
}

func NewBadRequest(message string) error {
	return New(http.StatusBadRequest, message)
}

// NewValidation flags rejected input, such as an unrecognized enum variant.
func NewValidation(message string) error {
	return New(http.StatusBadRequest, message)
}

func NewUnauthorized(message string) error {
	return New(http.StatusUnauthorized, message)
}

func NewForbidden(message string) error {
	return New(http.StatusForbidden, message)
}

func NewNotFound(message string) error {
	return New(http.StatusNotFound, message)
}

func NewConflict(message string) error {
	return New(http.StatusConflict, message)
}

// NewInternal wraps an unexpected fault. The wrapped error is for server-side
// logging only; the client always sees the same generic message.
func NewInternal(err error) *APIError {
	return &APIError{
		Name:       "Internal Server Error",
		Message:    "Server got itself in trouble",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToAPIError normalizes any error into an APIError.
func ToAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return New(fiberErr.Code, fiberErr.Message)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return New(http.StatusNotFound, "resource not found")
	}
	return NewInternal(err)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.HTTPStatus == status
}
