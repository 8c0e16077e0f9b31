package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// Bar represents a single daily bar. Any cell may be missing in the upstream data.
type Bar struct {
	Date   time.Time
	Open   null.Float
	High   null.Float
	Low    null.Float
	Close  null.Float
	Volume null.Int
}

// RangeInfo is the best-effort auxiliary data for a ticker.
type RangeInfo struct {
	High52w   float64
	Low52w    float64
	MarketCap null.Int
}

// TickerMetrics holds everything derived for one ticker.
// Prices and percentages are rounded to 2 decimals when produced.
type TickerMetrics struct {
	Ticker           string    `json:"ticker"`
	Close            float64   `json:"close"`
	Open             float64   `json:"open"`
	High             float64   `json:"high"`
	Low              float64   `json:"low"`
	Volume           int64     `json:"volume"`
	PrevClose        float64   `json:"prev_close"`
	DailyChangePct   float64   `json:"daily_change_pct"`
	FiftyTwoWeekHigh float64   `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  float64   `json:"fifty_two_week_low"`
	MarketCap        null.Int  `json:"market_cap"`
	HistoryDates     []string  `json:"history_dates"`
	HistoryPct       []float64 `json:"history_pct"`
	HistoryVolume    []int64   `json:"history_volume"`
}
