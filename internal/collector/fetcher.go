package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"StockPulse/internal/model"
)

// Source fetches daily bars for a batch of symbols.
// Bars are ordered oldest to newest. Symbols without data may be missing from the result.
type Source interface {
	FetchDailyBars(ctx context.Context, symbols []string, start, end time.Time) (map[string][]model.Bar, error)
	Name() string
}

// RangeLookup is a best-effort source of 52-week range and market cap.
// Any failure is reported as ok == false.
type RangeLookup interface {
	TryGetRange(ctx context.Context, symbol string) (info model.RangeInfo, ok bool)
}

// NoopLookup never has range data.
type NoopLookup struct{}

func (NoopLookup) TryGetRange(context.Context, string) (model.RangeInfo, bool) {
	return model.RangeInfo{}, false
}

// NewHTTPClient builds a client with an optional proxy.
func NewHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
