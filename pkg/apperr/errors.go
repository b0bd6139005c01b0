// Package apperr defines the application error type shared across the
// ingest, query, and HTTP layers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents a domain error with an HTTP status attached.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewServiceUnavailableError maps to the ingest/query readiness gate (§4.2, §4.5).
func NewServiceUnavailableError(message string) *AppError {
	return &AppError{Code: http.StatusServiceUnavailable, Message: message}
}

// NewNoContentError maps to dedup hits, non-news, unsupported language (§4.2).
func NewNoContentError(message string) *AppError {
	return &AppError{Code: http.StatusNoContent, Message: message}
}

// NewUnprocessableEntityError maps to parse/missing-meta failures (§4.2).
func NewUnprocessableEntityError(message string, err error) *AppError {
	return &AppError{Code: http.StatusUnprocessableEntity, Message: message, Err: err}
}

// NewUnauthorizedError maps to a failed /debug/stats Basic-Auth check.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: message}
}

// NewNotFoundError maps to Delete on a missing key (§4.2).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message}
}

// NewBadRequestError maps to an invalid lang_code/category query arg (§4.5).
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

// NewInternalError maps to store failures propagated as 500 (§7).
func NewInternalError(message string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, Err: err}
}

// AsAppError unwraps err into an *AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}
