package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers and the auth middleware guarding them.
type HandlerBundle struct {
	// Auth verifies driver and admin ID tokens.
	Auth gin.HandlerFunc
	// ScannerAuth authenticates gate scanners.
	ScannerAuth gin.HandlerFunc

	LotHandler     *LotHandler
	RateHandler    *RateHandler
	VehicleHandler *VehicleHandler
	SessionHandler *SessionHandler
	InvoiceHandler *InvoiceHandler
	UserHandler    *UserHandler
}
