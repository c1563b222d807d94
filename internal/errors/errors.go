// Package errors provides categorized error constructors shared by the
// service and API layers.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/brachiGH/firedns-dashboard/internal/types"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	// CategoryUserInput represents user input errors (4xx)
	CategoryUserInput ErrorCategory = "user_input"
	// CategoryAuthentication represents missing or unresolvable user context
	CategoryAuthentication ErrorCategory = "authentication"
	// CategoryNotFound represents not found errors
	CategoryNotFound ErrorCategory = "not_found"
	// CategoryConflict represents optimistic-concurrency conflicts
	CategoryConflict ErrorCategory = "conflict"
	// CategoryBackend represents transport or storage failures
	CategoryBackend ErrorCategory = "backend"
)

// Error codes surfaced to callers.
const (
	CodeNotAuthenticated   = "NOT_AUTHENTICATED"
	CodeNoAddressAvailable = "NO_ADDRESS_AVAILABLE"
	CodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	CodeNotFound           = "NOT_FOUND"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeConflict           = "CONFLICT"
)

// CategorizedError represents an error with category and HTTP status code
type CategorizedError struct {
	Category   ErrorCategory
	StatusCode int
	Code       string
	Message    string
	Details    map[string]interface{}
	Cause      error
}

// Error implements the error interface
func (e *CategorizedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *CategorizedError) Unwrap() error {
	return e.Cause
}

// ToServiceError converts to a ServiceError
func (e *CategorizedError) ToServiceError() *types.ServiceError {
	return &types.ServiceError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}

// NewNotAuthenticatedError indicates no user context could be resolved.
func NewNotAuthenticatedError() *CategorizedError {
	return &CategorizedError{
		Category:   CategoryAuthentication,
		StatusCode: http.StatusUnauthorized,
		Code:       CodeNotAuthenticated,
		Message:    "no authenticated user in request context",
	}
}

// NewNoAddressAvailableError indicates address linking was attempted with
// nothing to link.
func NewNoAddressAvailableError() *CategorizedError {
	return &CategorizedError{
		Category:   CategoryUserInput,
		StatusCode: http.StatusBadRequest,
		Code:       CodeNoAddressAvailable,
		Message:    "could not determine an address to link",
	}
}

// NewBackendUnavailableError wraps a transport or storage failure.
func NewBackendUnavailableError(cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryBackend,
		StatusCode: http.StatusBadGateway,
		Code:       CodeBackendUnavailable,
		Message:    "settings backend unavailable",
		Cause:      cause,
	}
}

// NewNotFoundError creates a not found error for the named resource.
func NewNotFoundError(resource, id string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryNotFound,
		StatusCode: http.StatusNotFound,
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found: %s", resource, id),
		Details: map[string]interface{}{
			"resource": resource,
			"id":       id,
		},
	}
}

// NewValidationError creates a validation error rejected before any remote call.
func NewValidationError(message string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryUserInput,
		StatusCode: http.StatusBadRequest,
		Code:       CodeValidationError,
		Message:    message,
	}
}

// NewConflictError indicates a version-stamped replace lost the race.
func NewConflictError(group string, expected, actual int64) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryConflict,
		StatusCode: http.StatusConflict,
		Code:       CodeConflict,
		Message:    fmt.Sprintf("stale version for %s settings: have %d, want %d", group, expected, actual),
		Details: map[string]interface{}{
			"group":           group,
			"suppliedVersion": expected,
			"currentVersion":  actual,
		},
	}
}

// IsCode reports whether err is a CategorizedError carrying the given code.
func IsCode(err error, code string) bool {
	var cerr *CategorizedError
	if errors.As(err, &cerr) {
		return cerr.Code == code
	}
	return false
}
