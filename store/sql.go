package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/stevemurr/negocio-server/model"
)

// Table names shared by every relational backend.
const (
	salesTable    = "ventas"
	expensesTable = "gastos"
	menuTable     = "menu_comida_corrida"
)

// dialect carries the statements that differ between SQL engines.
type dialect struct {
	name       string
	schema     []string
	upsertMenu string
}

// sqlStore implements Store on database/sql with one table per collection.
//
// Tables:
//
//	ventas(id, fecha, cliente, producto, monto, metodo_pago, notas, fecha_registro)
//	gastos(id, fecha, categoria, descripcion, monto, proveedor, notas, fecha_registro)
//	menu_comida_corrida(id, dia, tiempo, opcion, nombre, descripcion)  UNIQUE (dia, tiempo, opcion)
type sqlStore struct {
	mu      sync.RWMutex
	db      *sql.DB
	dialect dialect
}

func newSQLStore(db *sql.DB, d dialect) (*sqlStore, error) {
	for _, stmt := range d.schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s schema: %w", d.name, err)
		}
	}
	return &sqlStore{db: db, dialect: d}, nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const selectSales = `SELECT id, fecha, cliente, producto, monto, metodo_pago, notas, fecha_registro
	FROM ventas ORDER BY fecha DESC, id DESC`

const selectExpenses = `SELECT id, fecha, categoria, descripcion, monto, proveedor, notas, fecha_registro
	FROM gastos ORDER BY fecha DESC, id DESC`

const selectMenu = `SELECT dia, tiempo, opcion, nombre, descripcion
	FROM menu_comida_corrida ORDER BY dia, tiempo, opcion`

func listSales(ctx context.Context, q querier) ([]model.Sale, error) {
	rows, err := q.QueryContext(ctx, selectSales)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Sale{}
	for rows.Next() {
		var v model.Sale
		if err := rows.Scan(&v.ID, &v.Fecha, &v.Cliente, &v.Producto, &v.Monto,
			&v.MetodoPago, &v.Notas, &v.FechaRegistro); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func listExpenses(ctx context.Context, q querier) ([]model.Expense, error) {
	rows, err := q.QueryContext(ctx, selectExpenses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Expense{}
	for rows.Next() {
		var v model.Expense
		if err := rows.Scan(&v.ID, &v.Fecha, &v.Categoria, &v.Descripcion, &v.Monto,
			&v.Proveedor, &v.Notas, &v.FechaRegistro); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func listMenu(ctx context.Context, q querier) ([]model.MenuEntry, error) {
	rows, err := q.QueryContext(ctx, selectMenu)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.MenuEntry
	for rows.Next() {
		var e model.MenuEntry
		if err := rows.Scan(&e.Dia, &e.Tiempo, &e.Opcion, &e.Nombre, &e.Descripcion); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func insertSale(ctx context.Context, q querier, v model.Sale) (int64, error) {
	res, err := q.ExecContext(ctx,
		`INSERT INTO ventas (fecha, cliente, producto, monto, metodo_pago, notas, fecha_registro)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.Fecha, v.Cliente, v.Producto, v.Monto, v.MetodoPago, v.Notas, v.FechaRegistro.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertExpense(ctx context.Context, q querier, v model.Expense) (int64, error) {
	res, err := q.ExecContext(ctx,
		`INSERT INTO gastos (fecha, categoria, descripcion, monto, proveedor, notas, fecha_registro)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.Fecha, v.Categoria, v.Descripcion, v.Monto, v.Proveedor, v.Notas, v.FechaRegistro.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *sqlStore) ListSales(ctx context.Context) ([]model.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listSales(ctx, s.db)
}

func (s *sqlStore) InsertSale(ctx context.Context, v model.Sale) (model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := insertSale(ctx, s.db, v)
	if err != nil {
		return model.Sale{}, err
	}
	v.ID = id
	return v, nil
}

func (s *sqlStore) DeleteSale(ctx context.Context, id int64) (bool, error) {
	return s.deleteByID(ctx, salesTable, id)
}

func (s *sqlStore) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listExpenses(ctx, s.db)
}

func (s *sqlStore) InsertExpense(ctx context.Context, v model.Expense) (model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := insertExpense(ctx, s.db, v)
	if err != nil {
		return model.Expense{}, err
	}
	v.ID = id
	return v, nil
}

func (s *sqlStore) DeleteExpense(ctx context.Context, id int64) (bool, error) {
	return s.deleteByID(ctx, expensesTable, id)
}

func (s *sqlStore) deleteByID(ctx context.Context, table string, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *sqlStore) ListMenu(ctx context.Context) ([]model.MenuEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listMenu(ctx, s.db)
}

func (s *sqlStore) UpsertMenuEntry(ctx context.Context, e model.MenuEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, s.dialect.upsertMenu, e.Dia, e.Tiempo, e.Opcion, e.Nombre, e.Descripcion)
	return err
}

func (s *sqlStore) DeleteMenuEntry(ctx context.Context, k model.MenuKey) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM menu_comida_corrida WHERE dia = ? AND tiempo = ? AND opcion = ?",
		k.Dia, k.Tiempo, k.Opcion,
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *sqlStore) Dump(ctx context.Context) (*model.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ds := model.NewDataset()
	if ds.Ventas, err = listSales(ctx, tx); err != nil {
		return nil, err
	}
	if ds.Gastos, err = listExpenses(ctx, tx); err != nil {
		return nil, err
	}
	entries, err := listMenu(ctx, tx)
	if err != nil {
		return nil, err
	}
	ds.MenuComidaCorrida = model.BuildMenu(entries)
	return ds, tx.Commit()
}

// Replace deletes every row and reloads ds inside one transaction. Ids are
// assigned by the database; rows go in oldest first so the new ids keep the
// relative order they had.
func (s *sqlStore) Replace(ctx context.Context, ds *model.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{salesTable, expensesTable, menuTable} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, v := range oldestSalesFirst(ds.Ventas) {
		if _, err := insertSale(ctx, tx, v); err != nil {
			return fmt.Errorf("restore venta %d: %w", v.ID, err)
		}
	}
	for _, v := range oldestExpensesFirst(ds.Gastos) {
		if _, err := insertExpense(ctx, tx, v); err != nil {
			return fmt.Errorf("restore gasto %d: %w", v.ID, err)
		}
	}
	for _, e := range ds.MenuComidaCorrida.Entries() {
		if _, err := tx.ExecContext(ctx, s.dialect.upsertMenu, e.Dia, e.Tiempo, e.Opcion, e.Nombre, e.Descripcion); err != nil {
			return fmt.Errorf("restore menu %s/%s/%d: %w", e.Dia, e.Tiempo, e.Opcion, err)
		}
	}
	return tx.Commit()
}

func oldestSalesFirst(in []model.Sale) []model.Sale {
	out := append([]model.Sale{}, in...)
	model.SortSales(out)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func oldestExpensesFirst(in []model.Expense) []model.Expense {
	out := append([]model.Expense{}, in...)
	model.SortExpenses(out)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
