package handlers

import (
	"net/http"

	"rifa/internal/models"

	"github.com/gin-gonic/gin"
)

// ListPaymentMethods serves the storefront's active payment methods; the
// admin view passes all=true to include disabled ones.
func (h *Handlers) ListPaymentMethods(c *gin.Context) {
	activeOnly := c.Query("all") != "true"
	methods, err := h.services.Settings.ListPaymentMethods(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	if methods == nil {
		methods = []models.PaymentMethod{}
	}
	c.JSON(http.StatusOK, methods)
}

func (h *Handlers) CreatePaymentMethod(c *gin.Context) {
	var pm models.PaymentMethod
	if err := c.ShouldBindJSON(&pm); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.services.Settings.CreatePaymentMethod(c.Request.Context(), &pm)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handlers) UpdatePaymentMethod(c *gin.Context) {
	var pm models.PaymentMethod
	if err := c.ShouldBindJSON(&pm); err != nil {
		badRequest(c, err)
		return
	}
	pm.ID = c.Param("id")

	if err := h.services.Settings.UpdatePaymentMethod(c.Request.Context(), &pm); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pm)
}

func (h *Handlers) DeletePaymentMethod(c *gin.Context) {
	if err := h.services.Settings.DeletePaymentMethod(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// GetDollarPrice returns the configured exchange rate.
func (h *Handlers) GetDollarPrice(c *gin.Context) {
	price, updatedAt, err := h.services.Settings.DollarPrice(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"price": price, "updated_at": updatedAt})
}

func (h *Handlers) UpdateDollarPrice(c *gin.Context) {
	var req models.UpdateDollarPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.services.Settings.SetDollarPrice(c.Request.Context(), req.Price); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"price": req.Price})
}

func (h *Handlers) ListBonusOverrides(c *gin.Context) {
	overrides, err := h.services.Settings.ListBonusOverrides(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if overrides == nil {
		overrides = []models.BonusOverride{}
	}
	c.JSON(http.StatusOK, overrides)
}

func (h *Handlers) CreateBonusOverride(c *gin.Context) {
	var bo models.BonusOverride
	if err := c.ShouldBindJSON(&bo); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.services.Settings.CreateBonusOverride(c.Request.Context(), &bo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handlers) UpdateBonusOverride(c *gin.Context) {
	var bo models.BonusOverride
	if err := c.ShouldBindJSON(&bo); err != nil {
		badRequest(c, err)
		return
	}
	bo.ID = c.Param("id")

	if err := h.services.Settings.UpdateBonusOverride(c.Request.Context(), &bo); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bo)
}

func (h *Handlers) DeleteBonusOverride(c *gin.Context) {
	if err := h.services.Settings.DeleteBonusOverride(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
