package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rates are kept fractional (0.40 means 40%) everywhere inside the service.
// ToFraction and ToPercent are the only conversions at the boundaries.

var (
	rateOne     = decimal.NewFromInt(1)
	rateHundred = decimal.NewFromInt(100)
)

// ToFraction treats values above 1 as percentages. It is idempotent.
func ToFraction(value decimal.Decimal) (decimal.Decimal, error) {
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s is negative", ErrInvalidRate, value)
	}
	if value.GreaterThan(rateHundred) {
		return decimal.Zero, fmt.Errorf("%w: %s exceeds 100%%", ErrInvalidRate, value)
	}
	if value.GreaterThan(rateOne) {
		return value.Div(rateHundred), nil
	}
	return value, nil
}

// ToPercent multiplies fractional values by 100. Values already above 1 are
// taken as percentages and returned unchanged, so ToPercent is idempotent too.
func ToPercent(value decimal.Decimal) (decimal.Decimal, error) {
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s is negative", ErrInvalidRate, value)
	}
	if value.GreaterThan(rateHundred) {
		return decimal.Zero, fmt.Errorf("%w: %s exceeds 100%%", ErrInvalidRate, value)
	}
	if value.GreaterThan(rateOne) {
		return value, nil
	}
	return value.Mul(rateHundred), nil
}

// ValidateFraction checks a rate that is expected to already be fractional.
func ValidateFraction(value decimal.Decimal) error {
	if value.IsNegative() || value.GreaterThan(rateOne) {
		return fmt.Errorf("%w: fractional rate %s outside [0, 1]", ErrInvalidRate, value)
	}
	return nil
}
