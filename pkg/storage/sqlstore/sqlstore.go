// Package sqlstore is the database/sql storage driver shared by the sqlite
// and postgres packages. Queries are built with ent's dialect-aware SQL
// builder so the same code runs against both databases.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/papercomputeco/tutor/pkg/progress"
	"github.com/papercomputeco/tutor/pkg/storage"
)

const (
	Table = "progress_records"

	colSeq        = "seq"
	colID         = "id"
	colKind       = "kind"
	colRecordedAt = "recorded_at"
	colPayload    = "payload"
)

// Store implements storage.Driver on top of an ent SQL driver. The table
// must exist; each dialect package creates it with its own DDL.
type Store struct {
	drv *entsql.Driver

	// unique reports whether err is the database's unique constraint error.
	unique func(error) bool
}

// New wraps drv. migrations run in order before the store is returned.
func New(ctx context.Context, drv *entsql.Driver, unique func(error) bool, migrations ...string) (*Store, error) {
	for _, stmt := range migrations {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	if unique == nil {
		unique = func(error) bool { return false }
	}
	return &Store{drv: drv, unique: unique}, nil
}

// Append inserts r.
func (s *Store) Append(ctx context.Context, r *progress.Record) error {
	if r == nil {
		return storage.ErrNilRecord
	}

	query, args := entsql.Dialect(s.drv.Dialect()).
		Insert(Table).
		Columns(colID, colKind, colRecordedAt, colPayload).
		Values(r.ID.String(), string(r.Kind), r.RecordedAt.UTC().UnixMicro(), string(r.Payload)).
		Query()

	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		if s.unique(err) {
			return storage.DuplicateError{ID: r.ID}
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// Get retrieves a record by id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*progress.Record, error) {
	records, err := s.query(ctx, entsql.EQ(colID, id.String()))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, storage.NotFoundError{ID: id}
	}
	return records[0], nil
}

// List returns the records of kind in append order.
func (s *Store) List(ctx context.Context, kind progress.Kind) ([]*progress.Record, error) {
	var where *entsql.Predicate
	if kind != "" {
		where = entsql.EQ(colKind, string(kind))
	}
	return s.query(ctx, where)
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.drv.DB()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.drv.Close()
}

func (s *Store) query(ctx context.Context, where *entsql.Predicate) ([]*progress.Record, error) {
	b := entsql.Dialect(s.drv.Dialect())
	sel := b.Select(colID, colKind, colRecordedAt, colPayload).
		From(b.Table(Table)).
		OrderBy(entsql.Asc(colSeq))
	if where != nil {
		sel.Where(where)
	}
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []*progress.Record{}
	for rows.Next() {
		var (
			id, kind, payload string
			micros            int64
		)
		if err := rows.Scan(&id, &kind, &micros, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		rid, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid record id %q: %w", id, err)
		}
		records = append(records, &progress.Record{
			ID:         rid,
			Kind:       progress.Kind(kind),
			RecordedAt: time.UnixMicro(micros).UTC(),
			Payload:    []byte(payload),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(errors.New("failed to read records"), err)
	}
	return records, nil
}

var _ storage.Driver = (*Store)(nil)
