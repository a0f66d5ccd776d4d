package store

import (
	"context"
	"fmt"
	"time"

	"github.com/stevemurr/negocio-server/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type saleRow struct {
	ID            int64        `gorm:"primaryKey;autoIncrement"`
	Fecha         string       `gorm:"size:32;not null;default:'';index"`
	Cliente       string       `gorm:"size:255;not null;default:''"`
	Producto      string       `gorm:"size:255;not null;default:''"`
	Monto         model.Amount `gorm:"type:numeric(14,2);not null;default:0;check:chk_ventas_monto,monto >= 0"`
	MetodoPago    string       `gorm:"size:64;not null;default:''"`
	Notas         string       `gorm:"type:text;not null;default:''"`
	FechaRegistro time.Time    `gorm:"not null"`
}

func (saleRow) TableName() string { return salesTable }

type expenseRow struct {
	ID            int64        `gorm:"primaryKey;autoIncrement"`
	Fecha         string       `gorm:"size:32;not null;default:'';index"`
	Categoria     string       `gorm:"size:255;not null;default:''"`
	Descripcion   string       `gorm:"type:text;not null;default:''"`
	Monto         model.Amount `gorm:"type:numeric(14,2);not null;default:0;check:chk_gastos_monto,monto >= 0"`
	Proveedor     string       `gorm:"size:255;not null;default:''"`
	Notas         string       `gorm:"type:text;not null;default:''"`
	FechaRegistro time.Time    `gorm:"not null"`
}

func (expenseRow) TableName() string { return expensesTable }

type menuRow struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Dia         string `gorm:"size:32;not null;uniqueIndex:idx_menu_slot"`
	Tiempo      string `gorm:"size:32;not null;uniqueIndex:idx_menu_slot"`
	Opcion      int    `gorm:"not null;uniqueIndex:idx_menu_slot"`
	Nombre      string `gorm:"size:255;not null"`
	Descripcion string `gorm:"type:text;not null;default:''"`
}

func (menuRow) TableName() string { return menuTable }

func saleToRow(v model.Sale) saleRow {
	return saleRow{
		Fecha: v.Fecha, Cliente: v.Cliente, Producto: v.Producto, Monto: v.Monto,
		MetodoPago: v.MetodoPago, Notas: v.Notas, FechaRegistro: v.FechaRegistro.UTC(),
	}
}

func (r saleRow) toModel() model.Sale {
	return model.Sale{
		ID: r.ID, Fecha: r.Fecha, Cliente: r.Cliente, Producto: r.Producto, Monto: r.Monto,
		MetodoPago: r.MetodoPago, Notas: r.Notas, FechaRegistro: r.FechaRegistro,
	}
}

func expenseToRow(v model.Expense) expenseRow {
	return expenseRow{
		Fecha: v.Fecha, Categoria: v.Categoria, Descripcion: v.Descripcion, Monto: v.Monto,
		Proveedor: v.Proveedor, Notas: v.Notas, FechaRegistro: v.FechaRegistro.UTC(),
	}
}

func (r expenseRow) toModel() model.Expense {
	return model.Expense{
		ID: r.ID, Fecha: r.Fecha, Categoria: r.Categoria, Descripcion: r.Descripcion, Monto: r.Monto,
		Proveedor: r.Proveedor, Notas: r.Notas, FechaRegistro: r.FechaRegistro,
	}
}

func menuToRow(e model.MenuEntry) menuRow {
	return menuRow{Dia: e.Dia, Tiempo: e.Tiempo, Opcion: e.Opcion, Nombre: e.Nombre, Descripcion: e.Descripcion}
}

// upsertSlot makes an insert overwrite the dish already stored in the slot.
var upsertSlot = clause.OnConflict{
	Columns:   []clause.Column{{Name: "dia"}, {Name: "tiempo"}, {Name: "opcion"}},
	DoUpdates: clause.AssignmentColumns([]string{"nombre", "descripcion"}),
}

// PostgresStore stores the collections in PostgreSQL through gorm.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore connects to dsn. When migrate is true the tables,
// indexes and check constraints are created or updated with AutoMigrate.
func NewPostgresStore(dsn string, migrate bool) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if migrate {
		if err := db.AutoMigrate(&saleRow{}, &expenseRow{}, &menuRow{}); err != nil {
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func pgListSales(tx *gorm.DB) ([]model.Sale, error) {
	var rows []saleRow
	if err := tx.Order("fecha DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.Sale, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func pgListExpenses(tx *gorm.DB) ([]model.Expense, error) {
	var rows []expenseRow
	if err := tx.Order("fecha DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.Expense, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func pgListMenu(tx *gorm.DB) ([]model.MenuEntry, error) {
	var rows []menuRow
	if err := tx.Order("dia, tiempo, opcion").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.MenuEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.MenuEntry{
			MenuKey: model.MenuKey{Dia: r.Dia, Tiempo: r.Tiempo, Opcion: r.Opcion},
			Dish:    model.Dish{Nombre: r.Nombre, Descripcion: r.Descripcion},
		})
	}
	return out, nil
}

func (p *PostgresStore) ListSales(ctx context.Context) ([]model.Sale, error) {
	return pgListSales(p.db.WithContext(ctx))
}

func (p *PostgresStore) InsertSale(ctx context.Context, v model.Sale) (model.Sale, error) {
	row := saleToRow(v)
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.Sale{}, err
	}
	return row.toModel(), nil
}

func (p *PostgresStore) DeleteSale(ctx context.Context, id int64) (bool, error) {
	res := p.db.WithContext(ctx).Where("id = ?", id).Delete(&saleRow{})
	return res.RowsAffected > 0, res.Error
}

func (p *PostgresStore) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	return pgListExpenses(p.db.WithContext(ctx))
}

func (p *PostgresStore) InsertExpense(ctx context.Context, v model.Expense) (model.Expense, error) {
	row := expenseToRow(v)
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.Expense{}, err
	}
	return row.toModel(), nil
}

func (p *PostgresStore) DeleteExpense(ctx context.Context, id int64) (bool, error) {
	res := p.db.WithContext(ctx).Where("id = ?", id).Delete(&expenseRow{})
	return res.RowsAffected > 0, res.Error
}

func (p *PostgresStore) ListMenu(ctx context.Context) ([]model.MenuEntry, error) {
	return pgListMenu(p.db.WithContext(ctx))
}

func (p *PostgresStore) UpsertMenuEntry(ctx context.Context, e model.MenuEntry) error {
	row := menuToRow(e)
	return p.db.WithContext(ctx).Clauses(upsertSlot).Create(&row).Error
}

func (p *PostgresStore) DeleteMenuEntry(ctx context.Context, k model.MenuKey) (bool, error) {
	res := p.db.WithContext(ctx).
		Where("dia = ? AND tiempo = ? AND opcion = ?", k.Dia, k.Tiempo, k.Opcion).
		Delete(&menuRow{})
	return res.RowsAffected > 0, res.Error
}

func (p *PostgresStore) Dump(ctx context.Context) (*model.Dataset, error) {
	ds := model.NewDataset()
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if ds.Ventas, err = pgListSales(tx); err != nil {
			return err
		}
		if ds.Gastos, err = pgListExpenses(tx); err != nil {
			return err
		}
		entries, err := pgListMenu(tx)
		if err != nil {
			return err
		}
		ds.MenuComidaCorrida = model.BuildMenu(entries)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (p *PostgresStore) Replace(ctx context.Context, ds *model.Dataset) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&saleRow{}).Error; err != nil {
			return fmt.Errorf("clear %s: %w", salesTable, err)
		}
		if err := tx.Where("1 = 1").Delete(&expenseRow{}).Error; err != nil {
			return fmt.Errorf("clear %s: %w", expensesTable, err)
		}
		if err := tx.Where("1 = 1").Delete(&menuRow{}).Error; err != nil {
			return fmt.Errorf("clear %s: %w", menuTable, err)
		}

		for _, v := range oldestSalesFirst(ds.Ventas) {
			row := saleToRow(v)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("restore venta %d: %w", v.ID, err)
			}
		}
		for _, v := range oldestExpensesFirst(ds.Gastos) {
			row := expenseToRow(v)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("restore gasto %d: %w", v.ID, err)
			}
		}
		for _, e := range ds.MenuComidaCorrida.Entries() {
			row := menuToRow(e)
			if err := tx.Clauses(upsertSlot).Create(&row).Error; err != nil {
				return fmt.Errorf("restore menu %s/%s/%d: %w", e.Dia, e.Tiempo, e.Opcion, err)
			}
		}
		return nil
	})
}
