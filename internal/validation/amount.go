package validation

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// centPlaces is the finest precision accepted for money.
const centPlaces = 2

// MaxAmount bounds a single monetary value.
var MaxAmount = decimal.NewFromInt(1_000_000_000)

var (
	errAmountNotPositive = errors.New("amount must be greater than zero")
	errAmountTooLarge    = errors.New("amount must not exceed 1000000000")
	errAmountPrecision   = errors.New("amount must not have more than 2 decimal places")
)

// ValidateAmount accepts monetary values strictly greater than zero, in
// whole cents, up to MaxAmount. Non-positive values are rejected, never
// clamped.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errAmountNotPositive
	}
	if amount.GreaterThan(MaxAmount) {
		return errAmountTooLarge
	}
	if !amount.Equal(amount.Round(centPlaces)) {
		return errAmountPrecision
	}
	return nil
}

// ValidateRate accepts any finite annual rate.
func ValidateRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return errors.New("rate must be a finite number")
	}
	return nil
}
