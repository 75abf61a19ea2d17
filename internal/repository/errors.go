package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrVersionConflict is returned when an optimistic update lost the
	// race against a concurrent writer.
	ErrVersionConflict = errors.New("version conflict")

	// ErrDuplicate is returned when a uniqueness constraint would be
	// violated (e.g. a second rating in the same direction).
	ErrDuplicate = errors.New("duplicate entity")
)
