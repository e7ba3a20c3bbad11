package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// AmountFromFloat converts a boundary float into a money amount, rejecting
// NaN, infinities and negatives.
func AmountFromFloat(value float64) (decimal.Decimal, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Zero, fmt.Errorf("%w: %v is not finite", ErrInvalidAmount, value)
	}
	if value < 0 {
		return decimal.Zero, fmt.Errorf("%w: %v is negative", ErrInvalidAmount, value)
	}
	return decimal.NewFromFloat(value), nil
}
