// Package storage persists the progress event log.
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/papercomputeco/tutor/pkg/progress"
)

// Driver is an append-only store of progress records. Records come back in
// the order they were appended.
type Driver interface {
	// Append stores a new record. Appending an id that already exists is an
	// error; records are never updated.
	Append(ctx context.Context, r *progress.Record) error

	// Get returns the record with the given id, or NotFoundError.
	Get(ctx context.Context, id uuid.UUID) (*progress.Record, error)

	// List returns every record of kind, or every record when kind is empty.
	List(ctx context.Context, kind progress.Kind) ([]*progress.Record, error)

	// Close releases the store's resources.
	Close() error
}
