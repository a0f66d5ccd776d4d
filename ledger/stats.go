package ledger

import (
	"context"

	"github.com/stevemurr/negocio-server/model"
)

// Summary is the result of GET /api/estadisticas.
type Summary struct {
	TotalVentas        model.Amount `json:"totalVentas"`
	TotalGastos        model.Amount `json:"totalGastos"`
	GananciaNeta       model.Amount `json:"gananciaNeta"`
	TotalPedidos       int          `json:"totalPedidos"`
	TotalTransacciones int          `json:"totalTransacciones"`
}

// Stats aggregates the sales and expenses collections.
type Stats struct {
	sales    *Sales
	expenses *Expenses
}

func NewStats(sales *Sales, expenses *Expenses) *Stats {
	return &Stats{sales: sales, expenses: expenses}
}

// Compute sums every monto and counts the records. Transactions are sales
// plus expenses.
func (s *Stats) Compute(ctx context.Context) Summary {
	return Summarize(s.sales.List(ctx), s.expenses.List(ctx))
}

// Summarize computes the statistics over the given records.
func Summarize(sales []model.Sale, expenses []model.Expense) Summary {
	var sum Summary
	for _, v := range sales {
		sum.TotalVentas = sum.TotalVentas.Add(v.Monto)
	}
	for _, g := range expenses {
		sum.TotalGastos = sum.TotalGastos.Add(g.Monto)
	}
	sum.GananciaNeta = sum.TotalVentas.Sub(sum.TotalGastos)
	sum.TotalPedidos = len(sales)
	sum.TotalTransacciones = len(sales) + len(expenses)
	return sum
}
