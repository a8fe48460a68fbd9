package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// RunValidation triggers a consistency check and returns the report.
func (h *Handlers) RunValidation(c *gin.Context) {
	report, err := h.validator.Run(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// LatestValidation returns the summary written by the most recent run.
func (h *Handlers) LatestValidation(c *gin.Context) {
	report, err := h.validator.LatestSummary()
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No hay validaciones registradas"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
