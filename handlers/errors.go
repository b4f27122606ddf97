package handlers

import (
	"errors"
	"net/http"

	"parkwise/models"
	"parkwise/services/payment"
	"parkwise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var rejectionStatus = map[string]int{
	"sessionNotFound":      http.StatusNotFound,
	"vehicleNotFound":      http.StatusNotFound,
	"lotNotFound":          http.StatusNotFound,
	"rateNotFound":         http.StatusNotFound,
	"invoiceNotFound":      http.StatusNotFound,
	"userNotFound":         http.StatusNotFound,
	"lotFull":              http.StatusConflict,
	"vehicleAlreadyParked": http.StatusConflict,
	"sessionNotActive":     http.StatusConflict,
	"scanInProgress":       http.StatusConflict,
	"plateTaken":           http.StatusConflict,
	"invoiceNotPayable":    http.StatusConflict,
	"lotHasActiveSessions": http.StatusConflict,
	"capacityConflict":     http.StatusConflict,
	"noApplicableRate":     http.StatusUnprocessableEntity,
	"invalidDuration":      http.StatusUnprocessableEntity,
	"invalidRate":          http.StatusUnprocessableEntity,
	"invalidQRCode":        http.StatusBadRequest,
	"invalidInput":         http.StatusBadRequest,
	"forbidden":            http.StatusForbidden,
}

// StatusFor returns the HTTP status for a rejection code.
func StatusFor(code string) int {
	if status, ok := rejectionStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}

// respondError writes rejections with their mapped status and hides everything else behind a 500.
func respondError(c *gin.Context, err error) {
	var rej *models.Rejection
	if errors.As(err, &rej) {
		details := ""
		if msg := err.Error(); msg != rej.Error() {
			details = msg
		}
		utils.JSONErrorCode(c, StatusFor(rej.Code), rej.Code, rej.Message, details)
		return
	}
	if errors.Is(err, payment.ErrInvalidSignature) {
		utils.JSONErrorCode(c, http.StatusBadRequest, "invalidSignature", "Invalid webhook signature", "")
		return
	}
	getLogger(c).Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	utils.JSONErrorCode(c, http.StatusInternalServerError, "internal", "Internal server error", "")
}

// badRequest reports a malformed body or query.
func badRequest(c *gin.Context, err error) {
	utils.JSONErrorCode(c, http.StatusBadRequest, models.ErrInvalidInput.Code, "Invalid request", err.Error())
}
