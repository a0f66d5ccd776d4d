package store

import (
	"fmt"
	"path/filepath"
)

// SqliteFile is the database file name used by the sqlite backend.
const SqliteFile = "negocio.db"

// Options selects and configures a backend.
type Options struct {
	Backend     string
	DataDir     string
	DSN         string
	AutoMigrate bool
}

// New creates a Store based on the backend name.
//
// Supported backends:
//
//	"json"     - database.json in DataDir (default)
//	"memory"   - In-memory (ephemeral, for testing)
//	"sqlite"   - SQLite database at DataDir/negocio.db
//	"mysql"    - MySQL at DSN
//	"postgres" - PostgreSQL at DSN, tables migrated when AutoMigrate is set
func New(opts Options) (Store, error) {
	switch opts.Backend {
	case "json", "":
		return NewJsonFileStore(opts.DataDir)
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSqliteStore(filepath.Join(opts.DataDir, SqliteFile))
	case "mysql":
		if opts.DSN == "" {
			return nil, fmt.Errorf("store backend %q requires a DSN", opts.Backend)
		}
		return NewMySQLStore(opts.DSN)
	case "postgres":
		if opts.DSN == "" {
			return nil, fmt.Errorf("store backend %q requires a DSN", opts.Backend)
		}
		return NewPostgresStore(opts.DSN, opts.AutoMigrate)
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: json, memory, sqlite, mysql, postgres)", opts.Backend)
	}
}
