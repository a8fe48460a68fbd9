package handlers

import (
	"net/http"

	"rifa/internal/models"

	"github.com/gin-gonic/gin"
)

// ListPromotions returns a raffle's promotions. The storefront asks for
// active ones only; the admin view passes all=true.
func (h *Handlers) ListPromotions(c *gin.Context) {
	activeOnly := c.Query("all") != "true"
	promotions, err := h.services.Promotions.ListByRaffle(c.Request.Context(), c.Param("raffleId"), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	if promotions == nil {
		promotions = []models.Promotion{}
	}
	c.JSON(http.StatusOK, promotions)
}

// QuotePrice prices a ticket count, applying the best active promotion.
func (h *Handlers) QuotePrice(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	quote, err := h.services.Promotions.Quote(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *Handlers) CreatePromotion(c *gin.Context) {
	var req models.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	promotion, err := h.services.Promotions.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, promotion)
}

func (h *Handlers) UpdatePromotion(c *gin.Context) {
	var p models.Promotion
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	p.ID = c.Param("id")

	updated, err := h.services.Promotions.Update(c.Request.Context(), &p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handlers) TogglePromotion(c *gin.Context) {
	var req struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.services.Promotions.SetActive(c.Request.Context(), c.Param("id"), req.Active); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": req.Active})
}

func (h *Handlers) DeletePromotion(c *gin.Context) {
	if err := h.services.Promotions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
