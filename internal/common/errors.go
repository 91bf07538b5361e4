// Package common defines shared constants and sentinel errors used across
// the service. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Signup-specific: duplicate account is a caller error, not a silent miss.
	ErrAlreadyExists = errors.New("already exists")

	// Entity invariant violations.
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrPasswordUnchanged  = errors.New("new password must be different")
)
