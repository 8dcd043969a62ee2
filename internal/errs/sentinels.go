// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service/transport layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed authentication. It never says why.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken covers malformed, mis-signed and expired bearer tokens alike.
	ErrInvalidToken = errors.New("invalid token")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., skill name taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation marks caller input that can be fixed and resent.
	ErrValidation = errors.New("validation")

	// ErrStorage wraps artifact storage failures.
	ErrStorage = errors.New("storage")
)
