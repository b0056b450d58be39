package domain

import "errors"

// Sentinel errors for the error taxonomy at the storage and API
// boundaries. Use errors.Is to check: errors.Is(err, domain.ErrNotFound).
// Anything that does not match one of these is treated as a server error.
var (
	// ErrNotFound covers both a missing card and a card owned by a
	// different user; callers cannot tell the two apart.
	ErrNotFound = errors.New("tenfold: not found")

	// ErrUnauthorized means the caller's identity is missing or invalid.
	// It is the one error the session engine never swallows.
	ErrUnauthorized = errors.New("tenfold: unauthorized")

	// ErrInvalidInput means a request carried a malformed identifier or value.
	ErrInvalidInput = errors.New("tenfold: invalid input")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("tenfold: email already registered")
)
