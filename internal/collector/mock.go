package collector

import (
	"context"
	"time"

	"github.com/guregu/null/v6"

	"StockPulse/internal/model"
)

// MockSource returns controllable fixed data for development and testing.
// Symbols listed in Data get exactly those bars; others get generated bars
// unless Only is set.
type MockSource struct {
	Price float64
	Data  map[string][]model.Bar
	Only  bool
	Err   error
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) FetchDailyBars(_ context.Context, symbols []string, start, end time.Time) (map[string][]model.Bar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make(map[string][]model.Bar, len(symbols))
	for i, sym := range symbols {
		if bars, ok := m.Data[sym]; ok {
			out[sym] = bars
			continue
		}
		if m.Only {
			continue
		}
		base := m.Price
		if base == 0 {
			base = 100
		}
		out[sym] = generateMockBars(base*(1+float64(i)*0.1), start, end)
	}
	return out, nil
}

// generateMockBars returns one bar per weekday in [start, end).
func generateMockBars(basePrice float64, start, end time.Time) []model.Bar {
	var bars []model.Bar
	n := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(n%7-3)*0.004 + float64(n)*0.001)
		bars = append(bars, model.Bar{
			Date:   d,
			Open:   null.FloatFrom(p * 0.999),
			High:   null.FloatFrom(p * 1.005),
			Low:    null.FloatFrom(p * 0.995),
			Close:  null.FloatFrom(p),
			Volume: null.IntFrom(int64(1000000 + n*25000)),
		})
		n++
	}
	return bars
}
