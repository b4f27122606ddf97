package billing

import "math"

// RoundMoney rounds an amount to two decimal places.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// ToMinorUnits converts an amount to cents for payment providers.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
