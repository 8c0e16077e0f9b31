package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"StockPulse/internal/model"
)

// weekendBuffer widens the fetch window so the lookback still yields enough trading days.
const weekendBuffer = 5

// Collector orchestrates data fetching and per-ticker derivation.
type Collector struct {
	Source       Source
	Lookup       RangeLookup
	LookbackDays int
	Timeout      time.Duration
	Now          func() time.Time

	// NewLookup, when set, builds a fresh lookup for every Collect so cached
	// aux data never outlives a run.
	NewLookup func() RangeLookup
}

// NewCollector creates a new Collector.
func NewCollector(src Source, lookup RangeLookup, lookbackDays int, timeout time.Duration) *Collector {
	if lookup == nil {
		lookup = NoopLookup{}
	}
	return &Collector{
		Source:       src,
		Lookup:       lookup,
		LookbackDays: lookbackDays,
		Timeout:      timeout,
		Now:          time.Now,
	}
}

// Window returns the fetch range: from lookback+buffer days ago up to the start of today.
func (c *Collector) Window() (start, end time.Time) {
	now := c.Now()
	end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start = end.AddDate(0, 0, -(c.LookbackDays + weekendBuffer))
	return start, end
}

// Collect fetches all symbols in one call and derives an outcome per symbol, in symbol order.
// Only a source failure is returned as an error; per-ticker problems become skip outcomes.
func (c *Collector) Collect(ctx context.Context, symbols []string) ([]model.Outcome, error) {
	start, end := c.Window()

	fetchCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	data, err := c.Source.FetchDailyBars(fetchCtx, symbols, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars from %s: %w", c.Source.Name(), err)
	}

	lookup := c.Lookup
	if c.NewLookup != nil {
		lookup = c.NewLookup()
	}

	outcomes := make([]model.Outcome, 0, len(symbols))
	for _, sym := range symbols {
		bars, ok := data[sym]
		if !ok || len(bars) == 0 {
			log.Printf("[WARN] No data returned for %s", sym)
			outcomes = append(outcomes, model.Skipped(sym, model.SkipMissingData, nil))
			continue
		}
		outcomes = append(outcomes, Derive(ctx, sym, bars, lookup, c.LookbackDays))
	}
	return outcomes, nil
}

// Successful keeps the outcomes that produced metrics, keyed by ticker.
func Successful(outcomes []model.Outcome) map[string]*model.TickerMetrics {
	out := make(map[string]*model.TickerMetrics, len(outcomes))
	for _, o := range outcomes {
		if o.OK() {
			out[o.Ticker] = o.Metrics
		}
	}
	return out
}
