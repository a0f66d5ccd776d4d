package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// maxBackupBytes bounds the size of a restore upload.
const maxBackupBytes = 32 << 20

func (h *Handler) downloadBackup(c *gin.Context) {
	snap, err := h.backup.Export(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Error creando backup")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, h.backup.Filename(time.Now())))
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) restoreBackup(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBackupBytes)
	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, http.StatusRequestEntityTooLarge, "Respaldo demasiado grande")
			return
		}
		writeError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := h.backup.Restore(c.Request.Context(), raw); err != nil {
		h.fail(c, err, "Error restaurando datos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Datos restaurados exitosamente"})
}
