package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stevemurr/negocio-server/model"
	"github.com/stevemurr/negocio-server/store"
	"go.uber.org/zap"
)

// ExpenseInput is the client-supplied part of an expense.
type ExpenseInput struct {
	Fecha       string           `json:"fecha"`
	Categoria   string           `json:"categoria"`
	Descripcion string           `json:"descripcion"`
	Monto       *decimal.Decimal `json:"monto"`
	Proveedor   string           `json:"proveedor"`
	Notas       string           `json:"notas"`
}

// Expenses manages the gastos collection.
type Expenses struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewExpenses(s store.Store, logger *zap.Logger) *Expenses {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Expenses{store: s, logger: logger, now: time.Now}
}

func (e *Expenses) Create(ctx context.Context, in ExpenseInput) (model.Expense, error) {
	fecha, monto, err := validateEntry(in.Fecha, in.Monto)
	if err != nil {
		record(collectionExpenses, "create", err)
		return model.Expense{}, err
	}
	expense, err := e.store.InsertExpense(ctx, model.Expense{
		Fecha:         fecha,
		Categoria:     in.Categoria,
		Descripcion:   in.Descripcion,
		Monto:         monto,
		Proveedor:     in.Proveedor,
		Notas:         in.Notas,
		FechaRegistro: stamp(e.now),
	})
	if err != nil {
		e.logger.Error("failed to save expense", zap.Error(err))
		err = &StorageError{Op: "insert gasto", Err: err}
		record(collectionExpenses, "create", err)
		return model.Expense{}, err
	}
	record(collectionExpenses, "create", nil)
	e.logger.Info("expense created", zap.Int64("id", expense.ID), zap.String("monto", expense.Monto.String()))
	return expense, nil
}

func (e *Expenses) List(ctx context.Context) []model.Expense {
	expenses, err := e.store.ListExpenses(ctx)
	if err != nil {
		e.logger.Error("failed to list expenses", zap.Error(err))
		return []model.Expense{}
	}
	return expenses
}

func (e *Expenses) Delete(ctx context.Context, id int64) error {
	existed, err := e.store.DeleteExpense(ctx, id)
	if err != nil {
		e.logger.Error("failed to delete expense", zap.Int64("id", id), zap.Error(err))
		err = &StorageError{Op: "delete gasto", Err: err}
		record(collectionExpenses, "delete", err)
		return err
	}
	record(collectionExpenses, "delete", nil)
	e.logger.Debug("expense deleted", zap.Int64("id", id), zap.Bool("existed", existed))
	return nil
}
