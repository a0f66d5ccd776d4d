package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stevemurr/negocio-server/ledger"
)

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Id inválido")
		return 0, false
	}
	return id, true
}

// ---------- ventas ----------

func (h *Handler) listSales(c *gin.Context) {
	c.JSON(http.StatusOK, h.sales.List(c.Request.Context()))
}

func (h *Handler) createSale(c *gin.Context) {
	var in ledger.SaleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	sale, err := h.sales.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, "Error guardando venta")
		return
	}
	writeOK(c, "venta", sale)
}

func (h *Handler) deleteSale(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	if err := h.sales.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Error eliminando venta")
		return
	}
	writeOK(c, "", nil)
}

// ---------- gastos ----------

func (h *Handler) listExpenses(c *gin.Context) {
	c.JSON(http.StatusOK, h.expenses.List(c.Request.Context()))
}

func (h *Handler) createExpense(c *gin.Context) {
	var in ledger.ExpenseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	expense, err := h.expenses.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, "Error guardando gasto")
		return
	}
	writeOK(c, "gasto", expense)
}

func (h *Handler) deleteExpense(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	if err := h.expenses.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Error eliminando gasto")
		return
	}
	writeOK(c, "", nil)
}

// ---------- estadísticas ----------

func (h *Handler) statistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.Compute(c.Request.Context()))
}
