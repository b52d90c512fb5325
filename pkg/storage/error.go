package storage

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNilRecord is returned when Append is called without a record.
var ErrNilRecord = errors.New("cannot store nil record")

// NotFoundError is returned when a record doesn't exist in the store.
type NotFoundError struct {
	ID uuid.UUID
}

func (e NotFoundError) Error() string {
	if e.ID == uuid.Nil {
		return "record not found"
	}

	return "record not found: " + e.ID.String()
}

// DuplicateError is returned when a record id is appended twice.
type DuplicateError struct {
	ID uuid.UUID
}

func (e DuplicateError) Error() string {
	return "record already stored: " + e.ID.String()
}
