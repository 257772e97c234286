// Package platformerrors defines the error taxonomy shared between the
// chat-state service and the desktop UI. Every error carries a stable type
// key so the UI error presenter can map it to a title, suggestions and a
// recoverable flag without string matching.
package platformerrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// ErrorType classifies a failure for both HTTP mapping and UI presentation.
type ErrorType int

const (
	ErrorTypeInternal ErrorType = iota
	ErrorTypeValidation
	ErrorTypeNotFound
	ErrorTypeConflict
	ErrorTypeUnauthorized
	ErrorTypeForbidden
	ErrorTypeTimeout
	ErrorTypeExternal
	ErrorTypeRateLimited
)

// PlatformError is a typed error with a user-presentable message.
type PlatformError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *PlatformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PlatformError) Unwrap() error { return e.Err }

// New creates a PlatformError of the given type.
func New(t ErrorType, format string, args ...any) *PlatformError {
	return &PlatformError{Type: t, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a new PlatformError. The message should follow
// the "failed to <action>" convention used across the command surface.
func Wrap(t ErrorType, err error, format string, args ...any) *PlatformError {
	return &PlatformError{Type: t, Message: fmt.Sprintf(format, args...), Err: err}
}

// Get extracts a PlatformError from an error chain, or nil.
func Get(err error) *PlatformError {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe
	}
	return nil
}

// TypeKey returns the stable snake_case key for an error type. These keys are
// the contract with the UI-side error catalog; do not rename them.
func TypeKey(t ErrorType) string {
	switch t {
	case ErrorTypeValidation:
		return "validation_error"
	case ErrorTypeNotFound:
		return "not_found_error"
	case ErrorTypeConflict:
		return "conflict_error"
	case ErrorTypeUnauthorized:
		return "unauthorized_error"
	case ErrorTypeForbidden:
		return "forbidden_error"
	case ErrorTypeTimeout:
		return "timeout_error"
	case ErrorTypeExternal:
		return "external_error"
	case ErrorTypeRateLimited:
		return "rate_limited_error"
	default:
		return "internal_error"
	}
}

// HTTPStatus maps an error type to an HTTP status code.
func HTTPStatus(t ErrorType) int {
	switch t {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	case ErrorTypeExternal:
		return http.StatusBadGateway
	case ErrorTypeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Log writes the error at a level appropriate to its type. Validation and
// not-found errors are expected traffic, everything else is a real problem.
func Log(log zerolog.Logger, err *PlatformError) {
	switch err.Type {
	case ErrorTypeValidation, ErrorTypeNotFound:
		log.Debug().Err(err.Err).Str("type", TypeKey(err.Type)).Msg(err.Message)
	default:
		log.Error().Err(err.Err).Str("type", TypeKey(err.Type)).Msg(err.Message)
	}
}
