package models

import "fmt"

// Rejection is a user-visible, recoverable refusal of an operation.
type Rejection struct {
	Code    string
	Message string
}

func (e *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewRejection(code, msg string) *Rejection {
	return &Rejection{Code: code, Message: msg}
}

var (
	ErrLotFull              = NewRejection("lotFull", "the lot has no available spots")
	ErrVehicleAlreadyParked = NewRejection("vehicleAlreadyParked", "the vehicle is already checked in")
	ErrSessionNotFound      = NewRejection("sessionNotFound", "parking session not found")
	ErrSessionNotActive     = NewRejection("sessionNotActive", "parking session is already checked out")
	ErrVehicleNotFound      = NewRejection("vehicleNotFound", "vehicle not found")
	ErrLotNotFound          = NewRejection("lotNotFound", "parking lot not found")
	ErrRateNotFound         = NewRejection("rateNotFound", "parking rate not found")
	ErrScanInProgress       = NewRejection("scanInProgress", "a scan for this vehicle is already being processed")
	ErrPlateTaken           = NewRejection("plateTaken", "a vehicle with this plate is already registered")
	ErrInvoiceNotFound      = NewRejection("invoiceNotFound", "invoice not found")
	ErrInvoiceNotPayable    = NewRejection("invoiceNotPayable", "invoice is already settled")
	ErrLotHasActiveSessions = NewRejection("lotHasActiveSessions", "the lot still has checked-in vehicles")
	ErrCapacityConflict     = NewRejection("capacityConflict", "more spots are occupied than the new capacity")
	ErrUserNotFound         = NewRejection("userNotFound", "user not found")
	ErrForbidden            = NewRejection("forbidden", "you do not have access to this resource")
	ErrInvalidInput         = NewRejection("invalidInput", "the request is invalid")
)
