package storage

import (
	"encoding/json"
	"fmt"
)

// MarshalEntry serializes a VectorEntry to its stored JSON form.
func MarshalEntry(entry *VectorEntry) ([]byte, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalEntry deserializes a VectorEntry from its stored JSON form.
func UnmarshalEntry(data []byte) (*VectorEntry, error) {
	var entry VectorEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return &entry, nil
}

// ValidateEntry checks that a VectorEntry is storable.
func ValidateEntry(entry *VectorEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}
	if entry.Key == 0 {
		return fmt.Errorf("%w: zero key", ErrInvalidEntry)
	}
	if entry.URL == "" {
		return fmt.Errorf("%w: empty url", ErrInvalidEntry)
	}
	if len(entry.Vector) == 0 {
		return fmt.Errorf("%w: empty vector", ErrInvalidEntry)
	}
	return nil
}
