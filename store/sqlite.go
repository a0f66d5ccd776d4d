package store

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var sqliteDialect = dialect{
	name: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS ventas (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			fecha TEXT NOT NULL DEFAULT '',
			cliente TEXT NOT NULL DEFAULT '',
			producto TEXT NOT NULL DEFAULT '',
			monto NUMERIC NOT NULL DEFAULT 0 CHECK (monto >= 0),
			metodo_pago TEXT NOT NULL DEFAULT '',
			notas TEXT NOT NULL DEFAULT '',
			fecha_registro TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS gastos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			fecha TEXT NOT NULL DEFAULT '',
			categoria TEXT NOT NULL DEFAULT '',
			descripcion TEXT NOT NULL DEFAULT '',
			monto NUMERIC NOT NULL DEFAULT 0 CHECK (monto >= 0),
			proveedor TEXT NOT NULL DEFAULT '',
			notas TEXT NOT NULL DEFAULT '',
			fecha_registro TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS menu_comida_corrida (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			dia TEXT NOT NULL,
			tiempo TEXT NOT NULL,
			opcion INTEGER NOT NULL,
			nombre TEXT NOT NULL,
			descripcion TEXT NOT NULL DEFAULT '',
			UNIQUE (dia, tiempo, opcion)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ventas_fecha ON ventas (fecha)`,
		`CREATE INDEX IF NOT EXISTS idx_gastos_fecha ON gastos (fecha)`,
	},
	upsertMenu: `INSERT INTO menu_comida_corrida (dia, tiempo, opcion, nombre, descripcion)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(dia, tiempo, opcion) DO UPDATE SET
			nombre = excluded.nombre,
			descripcion = excluded.descripcion`,
}

// SqliteStore stores the collections in a single SQLite database file.
type SqliteStore struct {
	*sqlStore
}

func NewSqliteStore(dbPath string) (*SqliteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	s, err := newSQLStore(db, sqliteDialect)
	if err != nil {
		return nil, err
	}
	return &SqliteStore{sqlStore: s}, nil
}
