package store

import "errors"

var (
	// ErrNotFound is returned when no record matches the lookup key.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateTitle is returned when adding or renaming a book would
	// collide with an existing title under case-insensitive comparison.
	ErrDuplicateTitle = errors.New("title already exists")

	// ErrDuplicateUsername is returned when registering a username that is
	// already taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrCorrupt is returned when a data file exists but cannot be parsed.
	// A missing file is not corrupt; it reads as an empty collection.
	ErrCorrupt = errors.New("data file is corrupt")
)
