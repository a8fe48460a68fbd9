package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"rifa/internal/apperr"
	"rifa/internal/service"
	"rifa/internal/validation"

	"github.com/gin-gonic/gin"
)

// Handlers binds the HTTP surface to the services.
type Handlers struct {
	services  *service.Services
	validator *validation.Validator
}

func New(services *service.Services, validator *validation.Validator) *Handlers {
	return &Handlers{services: services, validator: validator}
}

// respondError maps domain errors to HTTP responses. Conflict errors carry
// the unavailable ticket numbers so the storefront can highlight them.
func respondError(c *gin.Context, err error) {
	status := apperr.StatusCode(err)

	var e *apperr.Error
	if errors.As(err, &e) {
		payload := gin.H{"error": e.Message}
		if len(e.Tickets) > 0 {
			payload["tickets"] = e.Tickets
		}
		c.JSON(status, payload)
		return
	}

	slog.Error("Request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(status, gin.H{"error": "Internal server error"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// Health is the liveness endpoint.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
