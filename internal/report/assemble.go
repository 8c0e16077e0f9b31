package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/guregu/null/v6"
	"github.com/ncruces/go-strftime"

	"StockPulse/internal/model"
)

// Up/down colors for the daily change and volume charts.
const (
	UpColor   = "#10b981"
	DownColor = "#ef4444"
)

// Palette assigns series colors by position in the ticker order.
var Palette = []string{
	"#6366f1", "#10b981", "#f59e0b", "#ef4444", "#3b82f6",
	"#8b5cf6", "#14b8a6", "#f97316", "#ec4899", "#84cc16",
}

const generatedAtPattern = "%B %d, %Y %I:%M %p"

var (
	// ErrNoData is returned when no ticker survived derivation.
	ErrNoData = errors.New("no data fetched")
	// ErrMisalignedSeries is returned when a series is longer than the common date axis.
	ErrMisalignedSeries = errors.New("series longer than date axis")
)

// Entry is one ticker's metrics plus presentation attributes.
type Entry struct {
	*model.TickerMetrics
	HistoryPctPadded []null.Float
	Color            string
	ChangeColor      string
	MarketCapFmt     string
	VolumeFmt        string
}

// Bundle is the assembled, cross-ticker view of one run.
type Bundle struct {
	Title        string
	GeneratedAt  string
	RunID        string
	Source       string
	Tickers      []string
	HistoryDates []string
	Entries      []Entry
	Skipped      []model.Outcome
}

// Options carries the run-level values that end up in the bundle.
type Options struct {
	Title   string
	RunID   string
	Source  string
	Now     time.Time
	Skipped []model.Outcome
}

// ChangeColor returns the up color for a non-negative change and the down color otherwise.
func ChangeColor(pct float64) string {
	if pct >= 0 {
		return UpColor
	}
	return DownColor
}

// Assemble aligns the surviving tickers on a common date axis, in the given order.
// Tickers missing from metrics are dropped. The axis is the longest history; on a tie
// the first ticker in order wins.
func Assemble(ordered []string, metrics map[string]*model.TickerMetrics, opts Options) (*Bundle, error) {
	b := &Bundle{
		Title:   opts.Title,
		RunID:   opts.RunID,
		Source:  opts.Source,
		Skipped: opts.Skipped,
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	b.GeneratedAt = strftime.Format(generatedAtPattern, now)

	for _, t := range ordered {
		m, ok := metrics[t]
		if !ok || m == nil {
			continue
		}
		b.Tickers = append(b.Tickers, t)
		if len(m.HistoryDates) > len(b.HistoryDates) {
			b.HistoryDates = m.HistoryDates
		}
	}
	if len(b.Tickers) == 0 {
		return nil, ErrNoData
	}

	b.Entries = make([]Entry, 0, len(b.Tickers))
	for i, t := range b.Tickers {
		m := metrics[t]
		padded, err := padLeft(m.HistoryPct, len(b.HistoryDates))
		if err != nil {
			return nil, fmt.Errorf("assemble %s: %w", t, err)
		}
		b.Entries = append(b.Entries, Entry{
			TickerMetrics:    m,
			HistoryPctPadded: padded,
			Color:            Palette[i%len(Palette)],
			ChangeColor:      ChangeColor(m.DailyChangePct),
			MarketCapFmt:     FormatMarketCap(m.MarketCap),
			VolumeFmt:        FormatVolume(m.Volume),
		})
	}
	return b, nil
}

// padLeft prefixes the series with no-data markers up to n entries.
func padLeft(series []float64, n int) ([]null.Float, error) {
	pad := n - len(series)
	if pad < 0 {
		return nil, fmt.Errorf("%w: %d > %d", ErrMisalignedSeries, len(series), n)
	}
	out := make([]null.Float, n)
	for i, v := range series {
		out[pad+i] = null.FloatFrom(v)
	}
	return out, nil
}
