package repositories

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert violates a unique index.
	// Callers racing on creation should re-read after seeing this.
	ErrDuplicateKey = errors.New("duplicate key")
)
