// Package inmemory provides a process-local storage driver.
package inmemory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/papercomputeco/tutor/pkg/progress"
	"github.com/papercomputeco/tutor/pkg/storage"
)

// Driver implements storage.Driver with a slice guarded by a mutex.
type Driver struct {
	// mu guards records and index
	mu sync.RWMutex

	// records holds every record in append order
	records []*progress.Record

	// index maps a record id to its position in records
	index map[uuid.UUID]int
}

// NewDriver creates a new in-memory store.
func NewDriver() *Driver {
	return &Driver{
		index: make(map[uuid.UUID]int),
	}
}

// Append stores a copy of r.
func (d *Driver) Append(_ context.Context, r *progress.Record) error {
	if r == nil {
		return storage.ErrNilRecord
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.index[r.ID]; ok {
		return storage.DuplicateError{ID: r.ID}
	}

	d.index[r.ID] = len(d.records)
	d.records = append(d.records, clone(r))
	return nil
}

// Get retrieves a record by id.
func (d *Driver) Get(_ context.Context, id uuid.UUID) (*progress.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i, ok := d.index[id]
	if !ok {
		return nil, storage.NotFoundError{ID: id}
	}
	return clone(d.records[i]), nil
}

// List returns the records of kind in append order.
func (d *Driver) List(_ context.Context, kind progress.Kind) ([]*progress.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*progress.Record, 0, len(d.records))
	for _, r := range d.records {
		if kind == "" || r.Kind == kind {
			out = append(out, clone(r))
		}
	}
	return out, nil
}

// Close is a no-op.
func (d *Driver) Close() error {
	return nil
}

func clone(r *progress.Record) *progress.Record {
	c := *r
	c.Payload = append([]byte(nil), r.Payload...)
	return &c
}

var _ storage.Driver = (*Driver)(nil)
