package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stevemurr/negocio-server/model"
	"github.com/stevemurr/negocio-server/store"
	"go.uber.org/zap"
)

// SaleInput is the client-supplied part of a sale.
type SaleInput struct {
	Fecha      string           `json:"fecha"`
	Cliente    string           `json:"cliente"`
	Producto   string           `json:"producto"`
	Monto      *decimal.Decimal `json:"monto"`
	MetodoPago string           `json:"metodoPago"`
	Notas      string           `json:"notas"`
}

// Sales manages the ventas collection.
type Sales struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewSales(s store.Store, logger *zap.Logger) *Sales {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sales{store: s, logger: logger, now: time.Now}
}

// Create validates in, stamps the registration time and stores the sale.
func (s *Sales) Create(ctx context.Context, in SaleInput) (model.Sale, error) {
	fecha, monto, err := validateEntry(in.Fecha, in.Monto)
	if err != nil {
		record(collectionSales, "create", err)
		return model.Sale{}, err
	}
	sale, err := s.store.InsertSale(ctx, model.Sale{
		Fecha:         fecha,
		Cliente:       in.Cliente,
		Producto:      in.Producto,
		Monto:         monto,
		MetodoPago:    in.MetodoPago,
		Notas:         in.Notas,
		FechaRegistro: stamp(s.now),
	})
	if err != nil {
		s.logger.Error("failed to save sale", zap.Error(err))
		err = &StorageError{Op: "insert venta", Err: err}
		record(collectionSales, "create", err)
		return model.Sale{}, err
	}
	record(collectionSales, "create", nil)
	s.logger.Info("sale created", zap.Int64("id", sale.ID), zap.String("monto", sale.Monto.String()))
	return sale, nil
}

// List returns every sale, newest first. A store failure is logged and
// yields an empty list.
func (s *Sales) List(ctx context.Context) []model.Sale {
	sales, err := s.store.ListSales(ctx)
	if err != nil {
		s.logger.Error("failed to list sales", zap.Error(err))
		return []model.Sale{}
	}
	return sales
}

// Delete removes the sale with id. Deleting an absent id succeeds.
func (s *Sales) Delete(ctx context.Context, id int64) error {
	existed, err := s.store.DeleteSale(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete sale", zap.Int64("id", id), zap.Error(err))
		err = &StorageError{Op: "delete venta", Err: err}
		record(collectionSales, "delete", err)
		return err
	}
	record(collectionSales, "delete", nil)
	s.logger.Debug("sale deleted", zap.Int64("id", id), zap.Bool("existed", existed))
	return nil
}
