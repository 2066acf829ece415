// Package domain contains the core business entities for the bloglist API.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ===========================================
	// Lookup Errors
	// ===========================================

	// ErrNotFound is the root of every "record does not exist" error.
	ErrNotFound = errors.New("not found")

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrPostNotFound indicates the requested post does not exist.
	ErrPostNotFound = fmt.Errorf("post %w", ErrNotFound)

	// ErrMalformedID indicates a resource identifier that cannot be parsed.
	ErrMalformedID = errors.New("malformatted id")

	// ===========================================
	// Uniqueness Errors
	// ===========================================

	// ErrConflict is the root of every uniqueness violation.
	ErrConflict = errors.New("conflict")

	// ErrUserAlreadyExists indicates a user with the same username exists.
	ErrUserAlreadyExists = fmt.Errorf("username must be unique: %w", ErrConflict)

	// ===========================================
	// Authentication/Authorization Errors
	// ===========================================

	// ErrInvalidCredentials indicates a login with an unknown username or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnauthorized indicates the request needs a valid bearer token and has none.
	ErrUnauthorized = errors.New("token missing or invalid")

	// ErrInvalidToken indicates a bearer token with a bad signature or shape.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates a correctly signed bearer token past its expiry.
	ErrExpiredToken = errors.New("token expired")

	// ErrForbidden indicates the principal is not the creator of the resource.
	ErrForbidden = errors.New("only the creator can modify this post")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	// Field is the name of the offending field as the client sent it.
	Field string

	// Message is the client-facing explanation.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
