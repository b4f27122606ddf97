package handlers

import (
	"net/http"
	"strconv"

	"parkwise/models"
	"parkwise/services/lot"
	"parkwise/services/parking"

	"github.com/gin-gonic/gin"
)

type RateHandler struct {
	LotService lot.LotService
	Parking    parking.ParkingService
}

func NewRateHandler(lots lot.LotService, parkingSvc parking.ParkingService) *RateHandler {
	return &RateHandler{LotService: lots, Parking: parkingSvc}
}

// ListRatesHandler handles GET /api/admin/lots/:id/rates?active=true.
func (h *RateHandler) ListRatesHandler(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.Query("active"))
	rates, err := h.LotService.ListRates(c.Request.Context(), c.Param("id"), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rates)
}

func (h *RateHandler) CreateRateHandler(c *gin.Context) {
	var input models.RateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	rate, err := h.LotService.CreateRate(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rate)
}

func (h *RateHandler) UpdateRateHandler(c *gin.Context) {
	var input models.RateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	rate, err := h.LotService.UpdateRate(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

func (h *RateHandler) ActivateRateHandler(c *gin.Context) {
	rate, err := h.LotService.ActivateRate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

func (h *RateHandler) DeactivateRateHandler(c *gin.Context) {
	rate, err := h.LotService.DeactivateRate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

func (h *RateHandler) DeleteRateHandler(c *gin.Context) {
	if err := h.LotService.DeleteRate(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rate deleted"})
}

// ResolveRateHandler handles GET /api/admin/rates/resolve?lotId=&rateType=.
func (h *RateHandler) ResolveRateHandler(c *gin.Context) {
	lotID := c.Query("lotId")
	rateType := models.RateType(c.Query("rateType"))
	if lotID == "" || rateType == "" {
		respondError(c, models.ErrInvalidInput)
		return
	}
	rate, err := h.Parking.ResolveRate(c.Request.Context(), lotID, rateType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}
