package storage

import "errors"

// Storage errors for the append-only seen-listings ledger.
var (
	// ErrInvalidInput is returned when input validation fails, in
	// particular when a key's symbol normalizes to the empty string.
	ErrInvalidInput = errors.New("invalid input")
)
