// Package model defines the bookkeeping records shared by the store backends,
// the services and the HTTP layer.
package model

import (
	"sort"
	"time"
)

// DateLayout is the canonical layout of the fecha field.
const DateLayout = "2006-01-02"

// Sale is one recorded sale (venta).
type Sale struct {
	ID            int64     `json:"id"`
	Fecha         string    `json:"fecha"`
	Cliente       string    `json:"cliente"`
	Producto      string    `json:"producto"`
	Monto         Amount    `json:"monto"`
	MetodoPago    string    `json:"metodoPago"`
	Notas         string    `json:"notas,omitempty"`
	FechaRegistro time.Time `json:"fechaRegistro"`
}

// Expense is one recorded expense (gasto).
type Expense struct {
	ID            int64     `json:"id"`
	Fecha         string    `json:"fecha"`
	Categoria     string    `json:"categoria"`
	Descripcion   string    `json:"descripcion"`
	Monto         Amount    `json:"monto"`
	Proveedor     string    `json:"proveedor,omitempty"`
	Notas         string    `json:"notas,omitempty"`
	FechaRegistro time.Time `json:"fechaRegistro"`
}

// NormalizeDate parses a date in YYYY-MM-DD or RFC 3339 form and returns it
// as YYYY-MM-DD.
func NormalizeDate(s string) (string, bool) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.Format(DateLayout), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(DateLayout), true
	}
	return "", false
}

// SortSales orders sales newest first: fecha desc, then id desc.
func SortSales(sales []Sale) {
	sort.SliceStable(sales, func(i, j int) bool {
		if sales[i].Fecha != sales[j].Fecha {
			return sales[i].Fecha > sales[j].Fecha
		}
		return sales[i].ID > sales[j].ID
	})
}

// SortExpenses orders expenses newest first: fecha desc, then id desc.
func SortExpenses(expenses []Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		if expenses[i].Fecha != expenses[j].Fecha {
			return expenses[i].Fecha > expenses[j].Fecha
		}
		return expenses[i].ID > expenses[j].ID
	})
}

// Dataset is the full content of the bookkeeping database. Its JSON form is
// the on-disk format of the document backend and the body of a backup.
type Dataset struct {
	Ventas            []Sale    `json:"ventas"`
	Gastos            []Expense `json:"gastos"`
	MenuComidaCorrida Menu      `json:"menuComidaCorrida"`
}

// NewDataset returns an empty dataset with non-nil collections.
func NewDataset() *Dataset {
	return &Dataset{
		Ventas:            []Sale{},
		Gastos:            []Expense{},
		MenuComidaCorrida: Menu{},
	}
}

// Normalize replaces nil collections with empty ones.
func (d *Dataset) Normalize() {
	if d.Ventas == nil {
		d.Ventas = []Sale{}
	}
	if d.Gastos == nil {
		d.Gastos = []Expense{}
	}
	if d.MenuComidaCorrida == nil {
		d.MenuComidaCorrida = Menu{}
	}
}

// Snapshot is a portable export of a Dataset.
type Snapshot struct {
	Dataset
	FechaBackup *time.Time `json:"fecha_backup,omitempty"`
}
