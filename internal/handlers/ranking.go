package handlers

import (
	"net/http"

	"rifa/internal/models"

	"github.com/gin-gonic/gin"
)

// GetRanking returns the buyer leaderboard. The raffle id "all" aggregates
// every raffle via the cross-raffle table.
func (h *Handlers) GetRanking(c *gin.Context) {
	items, err := h.services.Ranking.GetByRaffle(c.Request.Context(), c.Param("raffleId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []models.RankingItem{}
	}
	c.JSON(http.StatusOK, items)
}

// ResetRanking wipes the cross-raffle leaderboard.
func (h *Handlers) ResetRanking(c *gin.Context) {
	if err := h.services.Ranking.Reset(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": true})
}
