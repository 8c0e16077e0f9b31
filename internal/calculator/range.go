package calculator

import (
	"errors"
	"math"

	"StockPulse/internal/model"
)

// ErrNoRange is returned when no bar carries a usable high/low.
var ErrNoRange = errors.New("no high/low values in window")

// WindowRange scans the given bars and returns the highest High and the lowest Low.
// Missing cells are ignored.
func WindowRange(bars []model.Bar) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		if b.High.Valid && b.High.Float64 > high {
			high = b.High.Float64
		}
		if b.Low.Valid && b.Low.Float64 < low {
			low = b.Low.Float64
		}
	}
	if math.IsInf(high, -1) || math.IsInf(low, 1) {
		return 0, 0, ErrNoRange
	}
	return high, low, nil
}

// DropNullClose returns the bars that carry a close price, preserving order.
func DropNullClose(bars []model.Bar) []model.Bar {
	out := make([]model.Bar, 0, len(bars))
	for _, b := range bars {
		if b.Close.Valid {
			out = append(out, b)
		}
	}
	return out
}

// TrimTrailing keeps the most recent n bars. n <= 0 keeps everything.
func TrimTrailing(bars []model.Bar, n int) []model.Bar {
	if n <= 0 || len(bars) <= n {
		return bars
	}
	return bars[len(bars)-n:]
}
