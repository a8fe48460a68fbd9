package handlers

import (
	"net/http"
	"strconv"

	"rifa/internal/models"

	"github.com/gin-gonic/gin"
)

// ListRaffles serves the storefront raffle list from the cache when warm.
func (h *Handlers) ListRaffles(c *gin.Context) {
	payload, err := h.services.Raffles.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func (h *Handlers) GetRaffle(c *gin.Context) {
	raffle, err := h.services.Raffles.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffle)
}

func (h *Handlers) SearchRaffles(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	docs, err := h.services.Raffles.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *Handlers) CreateRaffle(c *gin.Context) {
	var req models.CreateRaffleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	raffle, err := h.services.Raffles.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, raffle)
}

func (h *Handlers) UpdateRaffle(c *gin.Context) {
	var req models.UpdateRaffleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	raffle, err := h.services.Raffles.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffle)
}

func (h *Handlers) DeleteRaffle(c *gin.Context) {
	if err := h.services.Raffles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
