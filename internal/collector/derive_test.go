package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guregu/null/v6"

	"StockPulse/internal/model"
)

func closeBars(closes ...float64) []model.Bar {
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Date:   time.Date(2024, 1, 2+i, 0, 0, 0, 0, time.UTC),
			Open:   null.FloatFrom(c - 1),
			High:   null.FloatFrom(c + 2),
			Low:    null.FloatFrom(c - 2),
			Close:  null.FloatFrom(c),
			Volume: null.IntFrom(int64(1000 * (i + 1))),
		}
	}
	return bars
}

type staticLookup map[string]model.RangeInfo

func (s staticLookup) TryGetRange(_ context.Context, symbol string) (model.RangeInfo, bool) {
	info, ok := s[symbol]
	return info, ok
}

type panicLookup struct{}

func (panicLookup) TryGetRange(context.Context, string) (model.RangeInfo, bool) {
	panic("boom")
}

func TestDerive_Basic(t *testing.T) {
	out := Derive(context.Background(), "AAA", closeBars(100, 102, 99), NoopLookup{}, 30)
	if !out.OK() {
		t.Fatalf("expected metrics, got skip %q (%v)", out.Skip, out.Err)
	}
	m := out.Metrics
	if m.DailyChangePct != -2.94 {
		t.Errorf("expected daily change -2.94, got %v", m.DailyChangePct)
	}
	if m.Close != 99 || m.PrevClose != 102 {
		t.Errorf("unexpected close/prev %v/%v", m.Close, m.PrevClose)
	}
	if m.Open != 98 || m.High != 101 || m.Low != 97 {
		t.Errorf("unexpected open/high/low %v/%v/%v", m.Open, m.High, m.Low)
	}
	if m.Volume != 3000 {
		t.Errorf("expected volume 3000, got %d", m.Volume)
	}
	wantPct := []float64{0, 2, -1}
	for i, w := range wantPct {
		if m.HistoryPct[i] != w {
			t.Errorf("history_pct[%d]: expected %v, got %v", i, w, m.HistoryPct[i])
		}
	}
	if m.HistoryDates[0] != "2024-01-02" || m.HistoryDates[2] != "2024-01-04" {
		t.Errorf("unexpected dates %v", m.HistoryDates)
	}
	if len(m.HistoryDates) != len(m.HistoryPct) || len(m.HistoryPct) != len(m.HistoryVolume) {
		t.Errorf("history lengths differ: %d/%d/%d", len(m.HistoryDates), len(m.HistoryPct), len(m.HistoryVolume))
	}
	// No aux data: window range and no market cap.
	if m.FiftyTwoWeekHigh != 104 || m.FiftyTwoWeekLow != 97 {
		t.Errorf("expected window range 104/97, got %v/%v", m.FiftyTwoWeekHigh, m.FiftyTwoWeekLow)
	}
	if m.MarketCap.Valid {
		t.Errorf("expected null market cap, got %d", m.MarketCap.Int64)
	}
}

func TestDerive_AuxLookup(t *testing.T) {
	lookup := staticLookup{"AAA": {High52w: 150.123, Low52w: 0, MarketCap: null.IntFrom(2_500_000_000)}}
	out := Derive(context.Background(), "AAA", closeBars(100, 101), lookup, 30)
	if !out.OK() {
		t.Fatalf("expected metrics, got %q", out.Skip)
	}
	if out.Metrics.FiftyTwoWeekHigh != 150.12 {
		t.Errorf("expected aux high 150.12, got %v", out.Metrics.FiftyTwoWeekHigh)
	}
	// Zero aux low falls back to the window.
	if out.Metrics.FiftyTwoWeekLow != 98 {
		t.Errorf("expected window low 98, got %v", out.Metrics.FiftyTwoWeekLow)
	}
	if out.Metrics.MarketCap.ValueOrZero() != 2_500_000_000 {
		t.Errorf("unexpected market cap %v", out.Metrics.MarketCap)
	}
}

func TestDerive_TrimsToLookback(t *testing.T) {
	out := Derive(context.Background(), "AAA", closeBars(50, 60, 100, 110, 120), nil, 3)
	if !out.OK() {
		t.Fatalf("expected metrics, got %q", out.Skip)
	}
	m := out.Metrics
	if len(m.HistoryPct) != 3 {
		t.Fatalf("expected 3 history points, got %d", len(m.HistoryPct))
	}
	if m.HistoryPct[0] != 0 || m.HistoryPct[2] != 20 {
		t.Errorf("unexpected history %v", m.HistoryPct)
	}
}

func TestDerive_Skips(t *testing.T) {
	nullClose := closeBars(10, 11)
	nullClose[1].Close = null.Float{}

	tests := []struct {
		name string
		bars []model.Bar
		want model.SkipReason
	}{
		{"empty", nil, model.SkipInsufficientData},
		{"one row", closeBars(10), model.SkipInsufficientData},
		{"null close leaves one row", nullClose, model.SkipInsufficientData},
		{"zero previous close", closeBars(5, 0, 3), model.SkipZeroBasePrice},
		{"zero first close", closeBars(0, 4, 5), model.SkipZeroBasePrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Derive(context.Background(), "XXX", tt.bars, NoopLookup{}, 30)
			if out.OK() {
				t.Fatal("expected a skip")
			}
			if out.Skip != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out.Skip)
			}
		})
	}
}

func TestDerive_PanickingLookupFallsBackToWindow(t *testing.T) {
	out := Derive(context.Background(), "AAA", closeBars(100, 102, 99), panicLookup{}, 30)
	if !out.OK() {
		t.Fatalf("expected metrics, got skip %q (%v)", out.Skip, out.Err)
	}
	m := out.Metrics
	if m.FiftyTwoWeekHigh != 104 || m.FiftyTwoWeekLow != 97 {
		t.Errorf("expected window range 104/97, got %v/%v", m.FiftyTwoWeekHigh, m.FiftyTwoWeekLow)
	}
	if m.MarketCap.Valid {
		t.Errorf("expected null market cap, got %d", m.MarketCap.Int64)
	}
}

func TestCollector_NewLookupPerRun(t *testing.T) {
	src := &MockSource{Only: true, Data: map[string][]model.Bar{"AAA": closeBars(100, 101)}}
	c := NewCollector(src, nil, 30, time.Second)
	built := 0
	c.NewLookup = func() RangeLookup {
		built++
		return staticLookup{"AAA": {High52w: float64(200 + built), Low52w: 50}}
	}
	for run := 1; run <= 2; run++ {
		outcomes, err := c.Collect(context.Background(), []string{"AAA"})
		if err != nil {
			t.Fatalf("run %d: Collect: %v", run, err)
		}
		if got := outcomes[0].Metrics.FiftyTwoWeekHigh; got != float64(200+run) {
			t.Errorf("run %d: expected high %d, got %v", run, 200+run, got)
		}
	}
	if built != 2 {
		t.Errorf("expected a lookup per run, got %d", built)
	}
}

func TestCollector_Collect(t *testing.T) {
	src := &MockSource{
		Only: true,
		Data: map[string][]model.Bar{
			"AAA": closeBars(100, 101, 102),
			"CCC": closeBars(10),
		},
	}
	c := NewCollector(src, nil, 30, time.Second)
	c.Now = func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) }

	start, end := c.Window()
	if !end.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected window end %v", end)
	}
	if !start.Equal(time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected window start %v", start)
	}

	outcomes, err := c.Collect(context.Background(), []string{"AAA", "CCC", "ZZZ"})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if !outcomes[0].OK() || outcomes[0].Ticker != "AAA" {
		t.Errorf("expected AAA metrics first, got %+v", outcomes[0])
	}
	if outcomes[1].Skip != model.SkipInsufficientData {
		t.Errorf("CCC: expected insufficient_data, got %q", outcomes[1].Skip)
	}
	if outcomes[2].Skip != model.SkipMissingData {
		t.Errorf("ZZZ: expected missing_data, got %q", outcomes[2].Skip)
	}

	ok := Successful(outcomes)
	if len(ok) != 1 || ok["AAA"] == nil {
		t.Errorf("expected only AAA to succeed, got %v", ok)
	}
}

func TestCollector_SourceError(t *testing.T) {
	c := NewCollector(&MockSource{Err: errors.New("down")}, nil, 30, time.Second)
	if _, err := c.Collect(context.Background(), []string{"AAA"}); err == nil {
		t.Error("expected source error")
	}
}

func TestMockSource_Generated(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // Monday
	end := start.AddDate(0, 0, 14)
	data, err := (&MockSource{Price: 50}).FetchDailyBars(context.Background(), []string{"AAA", "BBB"}, start, end)
	if err != nil {
		t.Fatalf("FetchDailyBars: %v", err)
	}
	if len(data["AAA"]) != 10 || len(data["BBB"]) != 10 {
		t.Errorf("expected 10 weekdays each, got %d/%d", len(data["AAA"]), len(data["BBB"]))
	}
}
