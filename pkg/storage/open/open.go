// Package open picks and opens the configured storage driver.
package open

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/tutor/pkg/storage"
	"github.com/papercomputeco/tutor/pkg/storage/inmemory"
	"github.com/papercomputeco/tutor/pkg/storage/postgres"
	"github.com/papercomputeco/tutor/pkg/storage/sqlite"
)

// Options names the available backends. The first one set wins, in the
// order PostgresDSN, SQLitePath; with neither the log lives in memory.
type Options struct {
	PostgresDSN string
	SQLitePath  string
}

// Driver opens the storage driver selected by opts.
func Driver(ctx context.Context, opts Options, log *slog.Logger) (storage.Driver, error) {
	switch {
	case opts.PostgresDSN != "":
		driver, err := postgres.NewDriver(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL storer: %w", err)
		}
		log.Info("using PostgreSQL storage")
		return driver, nil

	case opts.SQLitePath != "":
		driver, err := sqlite.NewDriver(ctx, opts.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite storer: %w", err)
		}
		log.Info("using SQLite storage", "path", opts.SQLitePath)
		return driver, nil
	}

	log.Info("using in-memory storage")
	return inmemory.NewDriver(), nil
}
