package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

var mysqlDialect = dialect{
	name: "mysql",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS ventas (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			fecha VARCHAR(32) NOT NULL DEFAULT '',
			cliente VARCHAR(255) NOT NULL DEFAULT '',
			producto VARCHAR(255) NOT NULL DEFAULT '',
			monto DECIMAL(14,2) NOT NULL DEFAULT 0,
			metodo_pago VARCHAR(64) NOT NULL DEFAULT '',
			notas TEXT NOT NULL,
			fecha_registro DATETIME(3) NOT NULL,
			INDEX idx_ventas_fecha (fecha),
			CONSTRAINT chk_ventas_monto CHECK (monto >= 0)
		) CHARACTER SET utf8mb4`,
		`CREATE TABLE IF NOT EXISTS gastos (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			fecha VARCHAR(32) NOT NULL DEFAULT '',
			categoria VARCHAR(255) NOT NULL DEFAULT '',
			descripcion TEXT NOT NULL,
			monto DECIMAL(14,2) NOT NULL DEFAULT 0,
			proveedor VARCHAR(255) NOT NULL DEFAULT '',
			notas TEXT NOT NULL,
			fecha_registro DATETIME(3) NOT NULL,
			INDEX idx_gastos_fecha (fecha),
			CONSTRAINT chk_gastos_monto CHECK (monto >= 0)
		) CHARACTER SET utf8mb4`,
		`CREATE TABLE IF NOT EXISTS menu_comida_corrida (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			dia VARCHAR(32) NOT NULL,
			tiempo VARCHAR(32) NOT NULL,
			opcion INT NOT NULL,
			nombre VARCHAR(255) NOT NULL,
			descripcion TEXT NOT NULL,
			UNIQUE KEY uq_menu_slot (dia, tiempo, opcion)
		) CHARACTER SET utf8mb4`,
	},
	upsertMenu: `INSERT INTO menu_comida_corrida (dia, tiempo, opcion, nombre, descripcion)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE nombre = VALUES(nombre), descripcion = VALUES(descripcion)`,
}

// MySQLStore stores the collections in a MySQL database.
type MySQLStore struct {
	*sqlStore
}

// NewMySQLStore connects to dsn (go-sql-driver format). Timestamps are
// always parsed into time.Time regardless of the DSN's parseTime setting.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetMaxOpenConns(10)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	s, err := newSQLStore(db, mysqlDialect)
	if err != nil {
		return nil, err
	}
	return &MySQLStore{sqlStore: s}, nil
}
