package store

import "errors"

// Sentinel errors returned by repositories. Callers branch with errors.Is;
// the concrete driver error stays wrapped underneath.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when input fails a store-level invariant
	// before any write is attempted.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when a unique constraint rejects a write.
	// Get-or-create paths retry the read on this error.
	ErrConflict = errors.New("conflict")
)
