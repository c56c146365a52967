package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// UpstreamErrorMessage describes a failed round trip to the pricing backend.
	UpstreamErrorMessage = "pricing backend request failed"
	// DecodeErrorMessage describes a backend payload that could not be turned into a record.
	DecodeErrorMessage = "pricing backend returned an unexpected payload"
	// ValidationErrorMessage describes rejected user input.
	ValidationErrorMessage = "invalid input"
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// WrapUpstream marks a transport failure talking to the pricing backend.
func WrapUpstream(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, UpstreamErrorMessage)
}

// WrapDecode marks a backend body that was not the record we asked for.
func WrapDecode(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, DecodeErrorMessage)
}

// Validation reports bad user input for the named field.
func Validation(field string, err error) error {
	return New(fmt.Errorf("%s: %w", field, err), http.StatusBadRequest, ValidationErrorMessage)
}

// StatusOf returns the HTTP status carried by err, or 500 when none is attached.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the safe message carried by err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return SystemErrorMessage
}
