package store

import "errors"

var (
	// ErrNotFound is returned when a record id does not exist in the collection.
	ErrNotFound = errors.New("store: record not found")

	// ErrConflict is returned when an expected version does not match the stored one.
	ErrConflict = errors.New("store: version conflict")

	// ErrDuplicateID is returned when adding a record whose id is already taken.
	ErrDuplicateID = errors.New("store: duplicate record id")
)
