// Package handler exposes the bookkeeping services over HTTP.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stevemurr/negocio-server/ledger"
	"github.com/stevemurr/negocio-server/store"
	"go.uber.org/zap"
)

// Handler holds the server dependencies and registers routes.
type Handler struct {
	sales    *ledger.Sales
	expenses *ledger.Expenses
	menu     *ledger.Menu
	stats    *ledger.Stats
	backup   *ledger.Backup
	logger   *zap.Logger
	engine   *gin.Engine
}

// New creates a Handler over s and wires up all routes.
func New(s store.Store, logger *zap.Logger, allowedOrigins []string) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	sales := ledger.NewSales(s, logger)
	expenses := ledger.NewExpenses(s, logger)
	h := &Handler{
		sales:    sales,
		expenses: expenses,
		menu:     ledger.NewMenu(s, logger),
		stats:    ledger.NewStats(sales, expenses),
		backup:   ledger.NewBackup(s, logger),
		logger:   logger,
		engine:   gin.New(),
	}
	h.engine.Use(gin.Recovery(), RequestLogging(logger), Metrics(), CORS(allowedOrigins))
	h.routes()
	return h
}

// ServeHTTP makes Handler an http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.engine.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	// Health / status
	h.engine.GET("/", h.root)
	h.engine.GET("/health", h.health)
	h.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := h.engine.Group("/api")

	api.GET("/ventas", h.listSales)
	api.POST("/ventas", h.createSale)
	api.DELETE("/ventas/:id", h.deleteSale)

	api.GET("/gastos", h.listExpenses)
	api.POST("/gastos", h.createExpense)
	api.DELETE("/gastos/:id", h.deleteExpense)

	api.GET("/estadisticas", h.statistics)

	api.GET("/menu", h.getMenu)
	api.POST("/menu", h.upsertDish)
	api.DELETE("/menu/:dia/:tiempo/:opcion", h.deleteDish)

	api.GET("/backup", h.downloadBackup)
	api.POST("/restore", h.restoreBackup)
}

// ---------- helpers ----------

const msgInvalidBody = "Datos inválidos"

func writeOK(c *gin.Context, key string, v any) {
	body := gin.H{"success": true}
	if key != "" {
		body[key] = v
	}
	c.JSON(http.StatusOK, body)
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// fail maps a service error to a response. Storage details are logged and
// replaced by storageMsg.
func (h *Handler) fail(c *gin.Context, err error, storageMsg string) {
	var verr *ledger.ValidationError
	var nf *ledger.NotFoundError
	switch {
	case errors.As(err, &verr):
		body := gin.H{"success": false, "error": verr.Message}
		if len(verr.Fields) > 0 {
			body["campos"] = verr.Fields
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &nf):
		writeError(c, http.StatusNotFound, notFoundMessage(nf))
	default:
		requestLogger(c, h.logger).Error(storageMsg, zap.Error(err))
		writeError(c, http.StatusInternalServerError, storageMsg)
	}
}

func notFoundMessage(nf *ledger.NotFoundError) string {
	if nf.Type == "platillo" {
		return "Platillo no encontrado"
	}
	return "Registro no encontrado"
}

// ---------- status endpoints ----------

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "Negocio Server",
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
