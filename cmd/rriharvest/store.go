package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fwojciec/rriharvest"
	"github.com/fwojciec/rriharvest/fs"
	rslog "github.com/fwojciec/rriharvest/slog"
	"github.com/fwojciec/rriharvest/sqlite"
)

// DBFile is the SQLite database name inside the state directory.
const DBFile = "harvest.db"

// corruptSuffix is appended to a state database that cannot be opened.
const corruptSuffix = ".corrupt"

// dir returns the state directory for the selected section.
func (f *StateFlags) dir() string {
	if f.Output != "" {
		return f.Output
	}
	return "output_" + f.Section
}

// openStore returns the selected section's state backend wrapped with
// logging, and a function releasing it.
func openStore(deps *Dependencies, f *StateFlags) (rriharvest.SnapshotStore, func() error, error) {
	if _, err := deps.Catalog.Section(f.Section); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rriharvest.ErrorMessage(err))
		return nil, nil, err
	}
	return openBackend(deps, f.dir(), f.Store, f.Section)
}

func openBackend(deps *Dependencies, dir, backend, section string) (rriharvest.SnapshotStore, func() error, error) {
	logger := deps.logger()

	switch backend {
	case "sqlite":
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create state directory: %w", err)
		}
		db, err := openDB(filepath.Join(dir, DBFile), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database in %q: %w", dir, err)
		}
		store := sqlite.NewStore(db, sqlite.WithLogger(logger))
		return rslog.NewLoggingStore(store, logger), db.Close, nil
	default:
		store := fs.NewStore(dir, fs.WithLogger(logger), fs.WithSection(section))
		return rslog.NewLoggingStore(store, logger), func() error { return nil }, nil
	}
}

// openDB opens the database at path. A file that is not a SQLite database
// is moved aside and replaced with an empty one so the crawl can proceed.
func openDB(path string, logger *slog.Logger) (*sqlite.DB, error) {
	db := sqlite.NewDB(path)
	err := db.Open()
	if err == nil || !sqlite.IsNotDatabase(err) {
		return db, err
	}

	moved := path + corruptSuffix
	if renameErr := os.Rename(path, moved); renameErr != nil {
		return nil, fmt.Errorf("%w (moving it aside failed: %v)", err, renameErr)
	}
	logger.Warn("ignoring unreadable state file",
		"file", path,
		"moved_to", moved,
		"err", err,
	)

	db = sqlite.NewDB(path)
	return db, db.Open()
}
