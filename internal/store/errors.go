package store

import "errors"

// Sentinel errors for the store package.
var (
	// ErrNotFound is returned when a record ID does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidEvent is returned when an event fails validation.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidRegistration is returned when a registration fails validation.
	ErrInvalidRegistration = errors.New("invalid registration")
)
