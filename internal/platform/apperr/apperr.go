// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for Librarium.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Taxonomy: One constructor per failure kind the ledger and state machine can produce.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the canonical error type for the Librarium API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "NO_STOCK").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Book") // Returns "Book not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Inventory Ledger Errors

// InvalidStock creates a 422 [AppError] for a stock edit that violates the
// per-branch invariants (available <= total, both >= 0). The offending
// branch is named in the message.
func InvalidStock(branch, msg string) *AppError {
	return &AppError{
		Code:       "INVALID_STOCK",
		Message:    fmt.Sprintf("Invalid stock for branch %s: %s", branch, msg),
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// InvalidLocation creates a 422 [AppError] for a branch identifier that is
// not one of the known locations, or does not exist on the book.
func InvalidLocation(branch string) *AppError {
	return &AppError{
		Code:       "INVALID_LOCATION",
		Message:    fmt.Sprintf("Unknown branch location %q", branch),
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NoStock creates a 409 [AppError] when a branch has no available copies.
func NoStock(branch string) *AppError {
	return &AppError{
		Code:       "NO_STOCK",
		Message:    fmt.Sprintf("No copies available at %s", branch),
		HTTPStatus: http.StatusConflict,
	}
}

// InvalidState creates a 409 [AppError] signalling ledger corruption
// (e.g. a return that would push available above total). It must never
// occur under correct operation but is always checked.
func InvalidState(msg string) *AppError {
	return &AppError{
		Code:       "INVALID_STATE",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// # Issue State Machine Errors

// AlreadyBorrowed creates a 409 [AppError] when a user already holds an
// active issue for the same title.
func AlreadyBorrowed() *AppError {
	return &AppError{
		Code:       "ALREADY_BORROWED",
		Message:    "User already borrowed this book",
		HTTPStatus: http.StatusConflict,
	}
}

// AlreadyReturned creates a 409 [AppError] for a return on a terminal issue.
func AlreadyReturned() *AppError {
	return &AppError{
		Code:       "ALREADY_RETURNED",
		Message:    "Book already returned",
		HTTPStatus: http.StatusConflict,
	}
}

// # Metadata Resolver Errors

// MetadataNotFound creates a 404 [AppError] when the bibliographic provider
// has no usable record for the identifier.
func MetadataNotFound(identifier string) *AppError {
	return &AppError{
		Code:       "METADATA_NOT_FOUND",
		Message:    fmt.Sprintf("Book metadata not found for %s", identifier),
		HTTPStatus: http.StatusNotFound,
	}
}

// UpstreamUnavailable creates a 502 [AppError] when the bibliographic
// provider is unreachable, times out, or returns a non-success status.
func UpstreamUnavailable(cause error) *AppError {
	return &AppError{
		Code:       "UPSTREAM_UNAVAILABLE",
		Message:    "Bibliographic provider is unavailable",
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ServiceUnavailable creates a 503 [AppError] for maintenance mode.
func ServiceUnavailable(msg string) *AppError {
	return &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    msg,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsCode reports whether err carries the given machine-readable code.
func IsCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
