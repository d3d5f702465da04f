// Package storage opens the slot store selected by configuration.
package storage

import (
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/ezexpenses/internal/config"
	"github.com/MrJamesThe3rd/ezexpenses/internal/database"
	"github.com/MrJamesThe3rd/ezexpenses/internal/kv"
)

// Open returns the configured store and a close func. SQL backends are
// migrated before use.
func Open(cfg *config.Config) (kv.Store, func(), error) {
	if cfg.Storage.Driver == config.StorageMemory {
		slog.Warn("using in-memory storage; records are lost on exit")
		return kv.NewMemory(), func() {}, nil
	}

	driver, dsn, err := cfg.SQLDriver()
	if err != nil {
		return nil, nil, err
	}

	if err := database.Migrate(driver, dsn); err != nil {
		return nil, nil, fmt.Errorf("migrating %s: %w", cfg.Storage.Driver, err)
	}

	db, err := database.New(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to %s: %w", cfg.Storage.Driver, err)
	}

	dialect := kv.DialectSQLite
	if driver == database.DriverPostgres {
		dialect = kv.DialectPostgres
	}

	return kv.NewSQL(db, dialect), func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}, nil
}
