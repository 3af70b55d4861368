// Package conversion converts between human-readable decimal amounts ("12.34") and integer unit amounts scaled by a
// conversion factor. All arithmetic on money happens on unit amounts; decimals only exist at the boundary.
package conversion

import (
	"fmt"
	"math"
	"strings"

	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// DefaultFactor is the number of units in one whole human-readable unit.
const DefaultFactor int64 = 10000

// DisplayPlaces is the number of fractional digits in every formatted amount.
const DisplayPlaces int32 = 2

var (
	maxUnits = decimal.NewFromInt(math.MaxInt64)
	minUnits = decimal.NewFromInt(math.MinInt64)
)

// Bounds on accepted input. They keep exponent notation such as "1e900000000" from forcing a rescale to an
// enormous number before the range check can run.
const (
	maxAmountLength   = 64
	maxAmountExponent = 18
	minAmountExponent = -maxAmountLength
)

// ToUnitAmount parses a decimal string and scales it by factor, rounding half away from zero.
func ToUnitAmount(humanAmount string, factor int64) (int64, error) {
	if factor <= 0 {
		return 0, fmt.Errorf("%w: %d", apperrors.ErrInvalidFactor, factor)
	}
	parsed, err := parseAmount(humanAmount)
	if err != nil {
		return 0, err
	}

	scaled := parsed.Mul(decimal.NewFromInt(factor)).Round(0)
	if scaled.GreaterThan(maxUnits) || scaled.LessThan(minUnits) {
		return 0, fmt.Errorf("%w: %q is out of range", apperrors.ErrInvalidAmount, humanAmount)
	}
	return scaled.IntPart(), nil
}

// parseAmount parses humanAmount and rejects values whose exponent could not fit an int64 unit amount.
func parseAmount(humanAmount string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(humanAmount)
	if trimmed == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: amount is empty", apperrors.ErrInvalidAmount)
	}
	if len(trimmed) > maxAmountLength {
		return decimal.Decimal{}, fmt.Errorf("%w: amount is longer than %d characters", apperrors.ErrInvalidAmount, maxAmountLength)
	}

	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is not a decimal number", apperrors.ErrInvalidAmount, humanAmount)
	}
	if exp := parsed.Exponent(); exp > maxAmountExponent || exp < minAmountExponent {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is out of range", apperrors.ErrInvalidAmount, humanAmount)
	}
	return parsed, nil
}

// FromUnitAmount formats units as a decimal string with exactly two fractional digits.
func FromUnitAmount(units int64, factor int64) (string, error) {
	if factor <= 0 {
		return "", fmt.Errorf("%w: %d", apperrors.ErrInvalidFactor, factor)
	}
	quotient := decimal.NewFromInt(units).DivRound(decimal.NewFromInt(factor), DisplayPlaces)
	return quotient.StringFixed(DisplayPlaces), nil
}

// MustFromUnitAmount is FromUnitAmount for values that were validated on the way in.
// It panics on an invalid factor.
func MustFromUnitAmount(units int64, factor int64) string {
	s, err := FromUnitAmount(units, factor)
	if err != nil {
		panic(err)
	}
	return s
}

// MaxFractionDigits returns how many fractional digits an amount may carry without being rounded by factor.
// 10000 allows 4, 100 allows 2.
func MaxFractionDigits(factor int64) int {
	digits := 0
	for factor >= 10 && factor%10 == 0 {
		factor /= 10
		digits++
	}
	return digits
}

// FractionDigits returns the number of significant fractional digits in the value of humanAmount.
// Exponents are applied and trailing zeros do not count: "1.5e2" has none, "1e-5" has 5 and "2.50" has 1.
func FractionDigits(humanAmount string) (int, error) {
	parsed, err := parseAmount(humanAmount)
	if err != nil {
		return 0, err
	}
	digits := 0
	for !parsed.Equal(parsed.Truncate(0)) {
		parsed = parsed.Shift(1)
		digits++
	}
	return digits, nil
}
