package handlers

import (
	"net/http"

	"rifa/internal/models"

	"github.com/gin-gonic/gin"
)

// CreatePurchase registers a pending purchase with its payment proof.
func (h *Handlers) CreatePurchase(c *gin.Context) {
	var req models.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.services.Purchases.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListPendingPurchases returns the purchases waiting for review.
func (h *Handlers) ListPendingPurchases(c *gin.Context) {
	pending, err := h.services.Purchases.ListPending(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if pending == nil {
		pending = []models.Purchase{}
	}
	c.JSON(http.StatusOK, pending)
}

func (h *Handlers) ApprovePurchase(c *gin.Context) {
	var req models.PurchaseActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	purchase, err := h.services.Purchases.Approve(c.Request.Context(), req.RaffleID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func (h *Handlers) RejectPurchase(c *gin.Context) {
	var req models.PurchaseActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.services.Purchases.Reject(c.Request.Context(), req.RaffleID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rejected": true})
}

func (h *Handlers) UndoPurchase(c *gin.Context) {
	var req models.PurchaseActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	purchase, err := h.services.Purchases.Undo(c.Request.Context(), req.RaffleID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

// DirectPurchase records an operator-entered sale, confirmed immediately.
func (h *Handlers) DirectPurchase(c *gin.Context) {
	var req models.DirectPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	purchase, err := h.services.Purchases.Direct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, purchase)
}
