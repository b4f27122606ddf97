package handlers

import (
	"net/http"
	"os"

	"parkwise/models"
	"parkwise/services/lot"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LotHandler struct {
	LotService lot.LotService
}

func NewLotHandler(svc lot.LotService) *LotHandler {
	return &LotHandler{LotService: svc}
}

// ListLotsHandler handles GET /api/lots.
func (h *LotHandler) ListLotsHandler(c *gin.Context) {
	lots, err := h.LotService.ListLots(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lots)
}

// NearbyLotsHandler handles GET /api/lots/nearby?lat=&lng=&radiusKm=.
func (h *LotHandler) NearbyLotsHandler(c *gin.Context) {
	var q models.NearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	lots, err := h.LotService.NearbyLots(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lots)
}

func (h *LotHandler) GetLotHandler(c *gin.Context) {
	l, err := h.LotService.GetLot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *LotHandler) CreateLotHandler(c *gin.Context) {
	var input models.LotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	l, err := h.LotService.CreateLot(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *LotHandler) UpdateLotHandler(c *gin.Context) {
	var input models.LotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	l, err := h.LotService.UpdateLot(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *LotHandler) DeleteLotHandler(c *gin.Context) {
	if err := h.LotService.DeleteLot(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lot deleted"})
}

// RotateScannerKeyHandler handles POST /api/admin/lots/:id/scanner-key. The key is shown once.
func (h *LotHandler) RotateScannerKeyHandler(c *gin.Context) {
	id := c.Param("id")
	key, err := h.LotService.RotateScannerKey(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lotId": id, "scannerKey": key})
}

// UploadLotPhotoHandler handles POST /api/admin/lots/:id/photo (multipart "file").
func (h *LotHandler) UploadLotPhotoHandler(c *gin.Context) {
	tempFilePath, ok := saveUpload(c)
	if !ok {
		return
	}
	defer os.Remove(tempFilePath)

	l, err := h.LotService.UploadPhoto(c.Request.Context(), c.Param("id"), tempFilePath)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("lot photo uploaded", zap.String("lotId", l.ID))
	c.JSON(http.StatusOK, l)
}
