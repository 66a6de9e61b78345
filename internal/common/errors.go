// Package common defines shared constants and sentinel errors used across
// the upload workflow layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// Auth errors.
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	// Lifecycle errors.
	ErrInvalidTransition = errors.New("invalid status transition")

	// Request validation errors.
	ErrBadRequest = errors.New("bad request")

	// Generic/internal flow control.
	ErrInternal = errors.New("internal error")
)
