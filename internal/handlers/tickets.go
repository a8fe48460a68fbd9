package handlers

import (
	"net/http"

	"rifa/internal/models"

	"github.com/gin-gonic/gin"
)

// ReserveTickets puts the requested numbers on hold for the buyer.
func (h *Handlers) ReserveTickets(c *gin.Context) {
	var req models.ReserveTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	raffle, err := h.services.Tickets.Reserve(c.Request.Context(), c.Param("id"), req.Tickets)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reserved":          req.Tickets,
		"available_numbers": raffle.AvailableNumbers,
	})
}

// ReleaseTickets frees previously held numbers.
func (h *Handlers) ReleaseTickets(c *gin.Context) {
	var req models.ReserveTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	raffle, err := h.services.Tickets.Release(c.Request.Context(), c.Param("id"), req.Tickets)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"released":          req.Tickets,
		"available_numbers": raffle.AvailableNumbers,
	})
}

// VerifyTickets looks up a buyer's confirmed tickets by phone.
func (h *Handlers) VerifyTickets(c *gin.Context) {
	var req models.VerifyTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	results, err := h.services.Verification.Verify(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	if results == nil {
		results = []models.VerifiedTickets{}
	}
	c.JSON(http.StatusOK, results)
}
