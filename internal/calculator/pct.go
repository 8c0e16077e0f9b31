package calculator

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var (
	// ErrZeroBase is returned when a percent change is taken against a zero price.
	ErrZeroBase = errors.New("zero base price")
	// ErrNonFinite is returned when an input or result is NaN or infinite.
	ErrNonFinite = errors.New("non-finite value")
)

// PercentChange returns (to-from)/from*100.
func PercentChange(from, to float64) (float64, error) {
	if from == 0 {
		return 0, ErrZeroBase
	}
	pct := (to - from) / from * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0, ErrNonFinite
	}
	return pct, nil
}

// Round2 rounds v to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
