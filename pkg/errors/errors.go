package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tachoscope/tachoscope-backend/pkg/i18n"
)

// Standard error types
var (
	ErrBadRequest        = errors.New("bad request")
	ErrValidation        = errors.New("validation error")
	ErrPayloadTooLarge   = errors.New("payload too large")
	ErrUnprocessableCard = errors.New("unprocessable card data")
)

// AppError represents an application error with context
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	MessageKey string            `json:"-"` // i18n key for localization
	Params     map[string]string `json:"-"`
	Code       string            `json:"code"`
	StatusCode int               `json:"status_code"`
	Details    map[string]string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Localize returns a localized version of the error message.
// Errors built with a custom message keep it.
func (e *AppError) Localize(ctx context.Context) string {
	if e.MessageKey == "" {
		return e.Message
	}
	return i18n.TFromContext(ctx, e.MessageKey, e.Params)
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Code:       "BAD_REQUEST",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// InvalidJSON is returned when a request body cannot be decoded
func InvalidJSON() *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Code:       "INVALID_JSON",
		Message:    "invalid JSON body",
		MessageKey: "errors.invalid_json",
		StatusCode: http.StatusBadRequest,
	}
}

func Validation(details map[string]string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Code:       "VALIDATION_ERROR",
		Message:    "validation failed",
		MessageKey: "errors.validation_failed",
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

func PayloadTooLarge(limit int64) *AppError {
	return &AppError{
		Err:        ErrPayloadTooLarge,
		Code:       "PAYLOAD_TOO_LARGE",
		Message:    "payload too large",
		MessageKey: "errors.payload_too_large",
		StatusCode: http.StatusRequestEntityTooLarge,
		Details:    map[string]string{"max_bytes": fmt.Sprintf("%d", limit)},
	}
}

// UnprocessableCard wraps a failure to read the decoder output at all
func UnprocessableCard(err error) *AppError {
	return &AppError{
		Err:        fmt.Errorf("%w: %v", ErrUnprocessableCard, err),
		Code:       "UNPROCESSABLE_CARD",
		Message:    "card data could not be processed",
		MessageKey: "errors.unprocessable_card",
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// Is checks if the error matches a target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to convert an error to a specific type
func As(err error, target any) bool {
	return errors.As(err, target)
}
