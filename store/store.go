// Package store defines the record store interface and its backends.
package store

import (
	"context"

	"github.com/stevemurr/negocio-server/model"
)

// Store is the interface that all backing stores must implement. It holds
// three collections: sales, expenses and the weekly menu.
//
// List methods return records ordered by fecha desc, then id desc.
type Store interface {
	// ListSales returns every sale.
	ListSales(ctx context.Context) ([]model.Sale, error)

	// InsertSale stores a sale and returns it with its assigned id.
	InsertSale(ctx context.Context, s model.Sale) (model.Sale, error)

	// DeleteSale removes a sale. Returns true if it existed.
	DeleteSale(ctx context.Context, id int64) (bool, error)

	// ListExpenses returns every expense.
	ListExpenses(ctx context.Context) ([]model.Expense, error)

	// InsertExpense stores an expense and returns it with its assigned id.
	InsertExpense(ctx context.Context, e model.Expense) (model.Expense, error)

	// DeleteExpense removes an expense. Returns true if it existed.
	DeleteExpense(ctx context.Context, id int64) (bool, error)

	// ListMenu returns every filled menu slot.
	ListMenu(ctx context.Context) ([]model.MenuEntry, error)

	// UpsertMenuEntry inserts or overwrites the slot identified by the entry's key.
	UpsertMenuEntry(ctx context.Context, e model.MenuEntry) error

	// DeleteMenuEntry empties a slot. Returns true if it held a dish.
	DeleteMenuEntry(ctx context.Context, k model.MenuKey) (bool, error)

	// Dump returns the whole dataset in one consistent read.
	Dump(ctx context.Context) (*model.Dataset, error)

	// Replace atomically swaps the whole dataset for ds. On error the
	// previous content is left untouched.
	Replace(ctx context.Context, ds *model.Dataset) error

	// Close releases the backend's resources.
	Close() error
}
