package handlers

import (
	"net/http"

	"parkwise/middleware"
	"parkwise/models"
	"parkwise/services/parking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SessionHandler struct {
	Parking parking.ParkingService
}

func NewSessionHandler(svc parking.ParkingService) *SessionHandler {
	return &SessionHandler{Parking: svc}
}

// ActiveSessionsHandler handles GET /api/sessions/active for the caller's vehicles.
func (h *SessionHandler) ActiveSessionsHandler(c *gin.Context) {
	sessions, err := h.Parking.ListSessions(c.Request.Context(), models.SessionFilter{
		OwnerID: middleware.CurrentUID(c),
		Status:  models.SessionCheckedIn,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// ListSessionsHandler handles GET /api/sessions (driver) and GET /api/admin/sessions.
func (h *SessionHandler) ListSessionsHandler(c *gin.Context) {
	var filter models.SessionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}
	filter.OwnerID = ownerScope(c)
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	sessions, err := h.Parking.ListSessions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// CheckInHandler handles POST /api/admin/sessions/checkin.
func (h *SessionHandler) CheckInHandler(c *gin.Context) {
	var req models.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.Parking.CheckIn(c.Request.Context(), req.VehicleID, req.LotID, parking.CheckInOptions{
		RateType: req.RateType,
		Source:   models.SourceAdmin,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// CheckOutHandler handles POST /api/admin/sessions/:id/checkout.
func (h *SessionHandler) CheckOutHandler(c *gin.Context) {
	var req models.CheckOutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	opts := parking.CheckOutOptions{Source: models.SourceAdmin}
	if req.ExitTime != nil {
		opts.At = *req.ExitTime
	}
	inv, err := h.Parking.CheckOut(c.Request.Context(), c.Param("id"), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// ScanHandler handles POST /api/scan from an authenticated gate scanner.
func (h *SessionHandler) ScanHandler(c *gin.Context) {
	var req models.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	lotID := middleware.ScannerLotID(c)
	result, err := h.Parking.Scan(c.Request.Context(), lotID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("gate scan", zap.String("lotId", lotID), zap.String("action", string(result.Action)))
	status := http.StatusOK
	if result.Action == models.ScanCheckedIn {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}
