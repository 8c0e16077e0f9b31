package collector

import (
	"context"
	"errors"
	"fmt"
	"log"

	"StockPulse/internal/calculator"
	"StockPulse/internal/model"
)

const historyDateLayout = "2006-01-02"

// Derive turns the raw bars of one ticker into metrics, or a skip reason.
// A panic while deriving is recovered and reported as a processing error.
func Derive(ctx context.Context, ticker string, bars []model.Bar, lookup RangeLookup, lookbackDays int) (out model.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("derive %s: panic: %v", ticker, r)
			log.Printf("[ERROR] %v", err)
			out = model.Skipped(ticker, model.SkipProcessingError, err)
		}
	}()

	rows := calculator.DropNullClose(bars)
	if len(rows) < 2 {
		log.Printf("[WARN] Insufficient data for %s (%d rows), skipping", ticker, len(rows))
		return model.Skipped(ticker, model.SkipInsufficientData, nil)
	}
	rows = calculator.TrimTrailing(rows, lookbackDays)

	today := rows[len(rows)-1]
	prev := rows[len(rows)-2]

	dailyPct, err := calculator.PercentChange(prev.Close.Float64, today.Close.Float64)
	if err != nil {
		return skipForCalc(ticker, "daily change", err)
	}

	base := rows[0].Close.Float64
	historyPct := make([]float64, len(rows))
	historyDates := make([]string, len(rows))
	historyVolume := make([]int64, len(rows))
	for i, r := range rows {
		pct, err := calculator.PercentChange(base, r.Close.Float64)
		if err != nil {
			return skipForCalc(ticker, "history", err)
		}
		historyPct[i] = calculator.Round2(pct)
		historyDates[i] = r.Date.Format(historyDateLayout)
		historyVolume[i] = r.Volume.ValueOrZero()
	}

	m := &model.TickerMetrics{
		Ticker:         ticker,
		Close:          calculator.Round2(today.Close.Float64),
		Open:           calculator.Round2(today.Open.ValueOrZero()),
		High:           calculator.Round2(today.High.ValueOrZero()),
		Low:            calculator.Round2(today.Low.ValueOrZero()),
		Volume:         today.Volume.ValueOrZero(),
		PrevClose:      calculator.Round2(prev.Close.Float64),
		DailyChangePct: calculator.Round2(dailyPct),
		HistoryDates:   historyDates,
		HistoryPct:     historyPct,
		HistoryVolume:  historyVolume,
	}

	high, low, err := calculator.WindowRange(rows)
	if err != nil {
		log.Printf("[WARN] %s window range: %v, using close", ticker, err)
		high, low = today.Close.Float64, today.Close.Float64
	}
	if info, ok := tryRange(ctx, lookup, ticker); ok {
		if info.High52w != 0 {
			high = info.High52w
		}
		if info.Low52w != 0 {
			low = info.Low52w
		}
		m.MarketCap = info.MarketCap
	}
	m.FiftyTwoWeekHigh = calculator.Round2(high)
	m.FiftyTwoWeekLow = calculator.Round2(low)

	return model.Outcome{Ticker: ticker, Metrics: m}
}

// tryRange asks the lookup for aux data. A panicking lookup counts as absent.
func tryRange(ctx context.Context, lookup RangeLookup, ticker string) (info model.RangeInfo, ok bool) {
	if lookup == nil {
		return model.RangeInfo{}, false
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WARN] %s range lookup panic: %v, using window range", ticker, r)
			info, ok = model.RangeInfo{}, false
		}
	}()
	return lookup.TryGetRange(ctx, ticker)
}

func skipForCalc(ticker, what string, err error) model.Outcome {
	if errors.Is(err, calculator.ErrZeroBase) {
		log.Printf("[WARN] %s %s: zero base price, skipping", ticker, what)
		return model.Skipped(ticker, model.SkipZeroBasePrice, err)
	}
	log.Printf("[ERROR] %s %s: %v", ticker, what, err)
	return model.Skipped(ticker, model.SkipProcessingError, fmt.Errorf("%s %s: %w", ticker, what, err))
}
