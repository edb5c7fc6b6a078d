package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error codes
const (
	CodeSourceUnavailable  = "SOURCE_UNAVAILABLE"
	CodeDatasetUnavailable = "DATASET_UNAVAILABLE"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeNotFound           = "RESOURCE_NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

// AppError represents an application error with HTTP status and error code
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	HTTPStatus int               `json:"-"`
	Err        error             `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a single detail to the error
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Wrap wraps an existing error
func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

// NewAppError creates a new AppError
func NewAppError(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// ErrSourceUnavailable reports that a single source file or sheet could not be read.
// Callers skip the source and continue.
func ErrSourceUnavailable(path, sheet string) *AppError {
	err := NewAppError(CodeSourceUnavailable, fmt.Sprintf("source %s could not be read", path), http.StatusInternalServerError).
		WithDetail("path", path)
	if sheet != "" {
		err.WithDetail("sheet", sheet)
	}
	return err
}

// ErrDatasetUnavailable reports that no source of a dataset could be loaded
func ErrDatasetUnavailable(dataset, dir string) *AppError {
	return NewAppError(CodeDatasetUnavailable, fmt.Sprintf("no %s data was loaded from %s", dataset, dir), http.StatusServiceUnavailable).
		WithDetail("dataset", dataset).
		WithDetail("dir", dir)
}

// ErrInvalidInput creates a validation error
func ErrInvalidInput(message string) *AppError {
	return NewAppError(CodeInvalidInput, message, http.StatusBadRequest)
}

// ErrNotFound creates a not found error
func ErrNotFound(resource string) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// ErrInternal creates an internal error
func ErrInternal(message string) *AppError {
	if message == "" {
		message = "an internal error occurred"
	}
	return NewAppError(CodeInternalError, message, http.StatusInternalServerError)
}

// AsAppError extracts an AppError from an error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether the error chain carries an AppError with the given code
func IsCode(err error, code string) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// HTTPStatus returns the status code for an error, 500 for unclassified errors
func HTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
