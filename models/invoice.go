package models

import "time"

type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
	InvoiceWaived  InvoiceStatus = "waived"
)

// Payable reports whether the invoice still expects money.
func (s InvoiceStatus) Payable() bool {
	return s == InvoicePending || s == InvoiceOverdue
}

// OverdueCharge is a late fee added to an unpaid invoice.
type OverdueCharge struct {
	ID        string    `bson:"id" json:"id"`
	Amount    float64   `bson:"amount" json:"amount"`
	Reason    string    `bson:"reason" json:"reason"`
	AppliedBy string    `bson:"appliedBy" json:"appliedBy"` // "system" or an admin UID.
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Invoice is produced exactly once per session, at check-out.
type Invoice struct {
	ID              string          `bson:"id" json:"id"`
	SessionID       string          `bson:"sessionId" json:"sessionId"`
	VehicleID       string          `bson:"vehicleId" json:"vehicleId"`
	OwnerID         string          `bson:"ownerId" json:"ownerId"`
	LotID           string          `bson:"lotId" json:"lotId"`
	PlateNumber     string          `bson:"plateNumber" json:"plateNumber"`
	RateType        RateType        `bson:"rateType" json:"rateType"`
	EntryTime       time.Time       `bson:"entryTime" json:"entryTime"`
	ExitTime        time.Time       `bson:"exitTime" json:"exitTime"`
	DurationMinutes int             `bson:"durationMinutes" json:"durationMinutes"`
	Amount          float64         `bson:"amount" json:"amount"`
	OverdueCharges  []OverdueCharge `bson:"overdueCharges" json:"overdueCharges"`
	Total           float64         `bson:"total" json:"total"`
	Currency        string          `bson:"currency" json:"currency"`
	Status          InvoiceStatus   `bson:"status" json:"status"`
	PaymentMethod   string          `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"` // "card" or "cash"
	PaymentID       string          `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	DueAt           time.Time       `bson:"dueAt" json:"dueAt"`
	PaidAt          *time.Time      `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	OwnerID string        `form:"-"`
	LotID   string        `form:"lotId"`
	Status  InvoiceStatus `form:"status"`
	Limit   int64         `form:"limit"`
}

type OverdueChargeInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Reason string  `json:"reason"`
}

// PaymentRequest asks for an invoice to be settled.
type PaymentRequest struct {
	Method string `json:"method" binding:"required,oneof=card cash"`
}

// PaymentIntent is what the client needs to confirm a card payment.
type PaymentIntent struct {
	InvoiceID    string  `json:"invoiceId"`
	PaymentID    string  `json:"paymentId"`
	ClientSecret string  `json:"clientSecret,omitempty"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Status       string  `json:"status"`
}
