package handlers

import (
	"io"
	"net/http"

	"parkwise/middleware"
	"parkwise/models"
	"parkwise/services/invoice"

	"github.com/gin-gonic/gin"
)

const maxWebhookBytes = 64 << 10

type InvoiceHandler struct {
	InvoiceService invoice.InvoiceService
}

func NewInvoiceHandler(svc invoice.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{InvoiceService: svc}
}

// ListInvoicesHandler handles GET /api/invoices (own) and GET /api/admin/invoices (all).
func (h *InvoiceHandler) ListInvoicesHandler(c *gin.Context) {
	var filter models.InvoiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}
	filter.OwnerID = ownerScope(c)
	invoices, err := h.InvoiceService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *InvoiceHandler) ListOverdueHandler(c *gin.Context) {
	invoices, err := h.InvoiceService.ListOverdue(c.Request.Context(), c.Query("lotId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *InvoiceHandler) GetInvoiceHandler(c *gin.Context) {
	inv, err := h.InvoiceService.Get(c.Request.Context(), ownerScope(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// PayInvoiceHandler handles POST /api/invoices/:id/pay and returns the card payment intent.
func (h *InvoiceHandler) PayInvoiceHandler(c *gin.Context) {
	req := models.PaymentRequest{Method: invoice.MethodCard}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	intent, err := h.InvoiceService.Pay(c.Request.Context(), middleware.CurrentUID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, intent)
}

// PaymentWebhookHandler handles POST /api/payments/webhook from Stripe.
func (h *InvoiceHandler) PaymentWebhookHandler(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.InvoiceService.HandleWebhook(c.Request.Context(), body, c.GetHeader("Stripe-Signature")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

type markPaidRequest struct {
	Method string `json:"method" binding:"omitempty,oneof=card cash"`
}

// MarkPaidHandler handles POST /api/admin/invoices/:id/mark-paid. Defaults to cash.
func (h *InvoiceHandler) MarkPaidHandler(c *gin.Context) {
	var req markPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	inv, err := h.InvoiceService.MarkPaid(c.Request.Context(), c.Param("id"), req.Method)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) WaiveHandler(c *gin.Context) {
	inv, err := h.InvoiceService.Waive(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) AddOverdueChargeHandler(c *gin.Context) {
	var input models.OverdueChargeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	inv, err := h.InvoiceService.AddOverdueCharge(c.Request.Context(), middleware.CurrentUID(c), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}
