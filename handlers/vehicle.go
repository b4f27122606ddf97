package handlers

import (
	"net/http"
	"os"

	"parkwise/middleware"
	"parkwise/models"
	"parkwise/services/vehicle"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	VehicleService vehicle.VehicleService
}

func NewVehicleHandler(svc vehicle.VehicleService) *VehicleHandler {
	return &VehicleHandler{VehicleService: svc}
}

// ownerScope limits drivers to their own vehicles. Admins see everything.
func ownerScope(c *gin.Context) string {
	if middleware.IsAdmin(c) {
		return ""
	}
	return middleware.CurrentUID(c)
}

func (h *VehicleHandler) RegisterVehicleHandler(c *gin.Context) {
	var input models.VehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	v, err := h.VehicleService.Register(c.Request.Context(), middleware.CurrentUID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *VehicleHandler) ListVehiclesHandler(c *gin.Context) {
	vehicles, err := h.VehicleService.List(c.Request.Context(), middleware.CurrentUID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

func (h *VehicleHandler) GetVehicleHandler(c *gin.Context) {
	v, err := h.VehicleService.Get(c.Request.Context(), ownerScope(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *VehicleHandler) DeleteVehicleHandler(c *gin.Context) {
	if err := h.VehicleService.Delete(c.Request.Context(), ownerScope(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted"})
}

// VehicleQRHandler handles GET /api/vehicles/:id/qr. ?format=json returns the raw payload.
func (h *VehicleHandler) VehicleQRHandler(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if c.Query("format") == "json" {
		code, err := h.VehicleService.QRCode(ctx, ownerScope(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, code)
		return
	}
	png, err := h.VehicleService.QRImage(ctx, ownerScope(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

func (h *VehicleHandler) UploadVehiclePhotoHandler(c *gin.Context) {
	tempFilePath, ok := saveUpload(c)
	if !ok {
		return
	}
	defer os.Remove(tempFilePath)

	v, err := h.VehicleService.UploadPhoto(c.Request.Context(), ownerScope(c), c.Param("id"), tempFilePath)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type rateTypeRequest struct {
	RateType models.RateType `json:"rateType" binding:"required"`
}

// SetRateTypeHandler handles PUT /api/admin/vehicles/:id/rate-type.
func (h *VehicleHandler) SetRateTypeHandler(c *gin.Context) {
	var req rateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	v, err := h.VehicleService.SetRateType(c.Request.Context(), c.Param("id"), req.RateType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}
