package billing

import "parkwise/models"

var (
	ErrNoApplicableRate = models.NewRejection("noApplicableRate", "no active rate for this lot and rate type")
	ErrInvalidDuration  = models.NewRejection("invalidDuration", "exit time must not be before entry time")
	ErrInvalidRate      = models.NewRejection("invalidRate", "rate values are inconsistent")
)
