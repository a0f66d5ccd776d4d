// Package ledger implements the bookkeeping operations on top of a
// store.Store: sales and expenses, the weekly menu, statistics and
// backup/restore.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stevemurr/negocio-server/metrics"
	"github.com/stevemurr/negocio-server/model"
)

// Collection labels used in logs and metrics.
const (
	collectionSales    = "ventas"
	collectionExpenses = "gastos"
	collectionMenu     = "menu"
)

const msgMissingData = "Faltan datos requeridos"

// stamp returns the registration time of a new record. Millisecond
// precision keeps it identical across every backend.
func stamp(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Millisecond)
}

// validateEntry checks the fields shared by sales and expenses and returns
// the normalized fecha and monto.
func validateEntry(fecha string, monto *decimal.Decimal) (string, model.Amount, error) {
	var missing []string
	if fecha == "" {
		missing = append(missing, "fecha")
	}
	if monto == nil {
		missing = append(missing, "monto")
	}
	if len(missing) > 0 {
		return "", model.Amount{}, &ValidationError{Message: msgMissingData, Fields: missing}
	}
	day, ok := model.NormalizeDate(fecha)
	if !ok {
		return "", model.Amount{}, &ValidationError{Message: "Fecha inválida", Fields: []string{"fecha"}}
	}
	if monto.IsNegative() {
		return "", model.Amount{}, &ValidationError{Message: "El monto no puede ser negativo", Fields: []string{"monto"}}
	}
	return day, model.AmountFromDecimal(*monto), nil
}

func record(collection, op string, err error) {
	status := metrics.StatusSuccess
	switch {
	case err == nil:
	case IsValidation(err), IsNotFound(err):
		status = metrics.StatusInvalid
	default:
		status = metrics.StatusError
	}
	metrics.RecordOperationsTotal.WithLabelValues(collection, op, status).Inc()
}
