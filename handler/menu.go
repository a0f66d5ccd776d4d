package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stevemurr/negocio-server/ledger"
)

func (h *Handler) getMenu(c *gin.Context) {
	c.JSON(http.StatusOK, h.menu.Get(c.Request.Context()))
}

func (h *Handler) upsertDish(c *gin.Context) {
	var in ledger.MenuInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	entry, err := h.menu.Upsert(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, "Error guardando platillo")
		return
	}
	writeOK(c, "platillo", entry)
}

func (h *Handler) deleteDish(c *gin.Context) {
	err := h.menu.Delete(c.Request.Context(), c.Param("dia"), c.Param("tiempo"), c.Param("opcion"))
	if err != nil {
		h.fail(c, err, "Error eliminando platillo")
		return
	}
	writeOK(c, "", nil)
}
