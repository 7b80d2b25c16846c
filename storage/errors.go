package storage

import "errors"

var (
	// ErrNotFound indicates that the requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateRecord indicates an append for a URL that already has
	// a record; logs hold at most one record per normalized URL.
	ErrDuplicateRecord = errors.New("duplicate record")

	// ErrInvalidEntry indicates a vector entry failed validation.
	ErrInvalidEntry = errors.New("invalid vector entry")

	// ErrInvalidQuery indicates invalid query parameters.
	ErrInvalidQuery = errors.New("invalid query parameters")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")
)
