package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	"StockPulse/internal/model"
)

// ServiceSource implements Source using a price service REST API.
// All symbols are requested in a single call.
type ServiceSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewServiceSource creates a new source with optional proxy support.
func NewServiceSource(baseURL, apiKey, proxyURL string, timeout time.Duration) *ServiceSource {
	return &ServiceSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  NewHTTPClient(proxyURL, timeout),
	}
}

func (f *ServiceSource) Name() string { return "service" }

// serviceBar is the expected JSON shape from the price service. Any value may be null.
type serviceBar struct {
	Date   string     `json:"date"`
	Open   null.Float `json:"open"`
	High   null.Float `json:"high"`
	Low    null.Float `json:"low"`
	Close  null.Float `json:"close"`
	Volume null.Float `json:"volume"`
}

func (f *ServiceSource) FetchDailyBars(ctx context.Context, symbols []string, start, end time.Time) (map[string][]model.Bar, error) {
	q := url.Values{}
	q.Set("symbols", strings.Join(symbols, ","))
	q.Set("start", start.Format("2006-01-02"))
	q.Set("end", end.Format("2006-01-02"))
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}

	var raw map[string][]serviceBar
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}

	out := make(map[string][]model.Bar, len(raw))
	for sym, rows := range raw {
		bars := make([]model.Bar, 0, len(rows))
		for _, r := range rows {
			d, err := time.Parse("2006-01-02", r.Date)
			if err != nil {
				return nil, fmt.Errorf("decode bars: %s: bad date %q: %w", sym, r.Date, err)
			}
			b := model.Bar{Date: d, Open: r.Open, High: r.High, Low: r.Low, Close: r.Close}
			if r.Volume.Valid {
				b.Volume = null.IntFrom(int64(r.Volume.Float64))
			}
			bars = append(bars, b)
		}
		// Ensure chronological order
		sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
		out[strings.ToUpper(sym)] = bars
	}
	return out, nil
}
