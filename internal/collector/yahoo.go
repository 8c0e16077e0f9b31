package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/guregu/null/v6"

	"StockPulse/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// yahooAliases maps configured symbols to Yahoo tickers.
var yahooAliases = map[string]string{
	"SPX500": "^GSPC",
	"SPX":    "^GSPC",
	"SP500":  "^GSPC",
}

// YahooSymbol returns the Yahoo ticker for a configured symbol.
func YahooSymbol(symbol string) string {
	if mapped, ok := yahooAliases[symbol]; ok {
		return mapped
	}
	return symbol
}

// YahooSource implements Source using the Yahoo Finance chart API.
type YahooSource struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooSource creates a new Yahoo Finance source.
func NewYahooSource(proxyURL string, timeout time.Duration) *YahooSource {
	return &YahooSource{
		BaseURL: yahooBaseURL,
		Client:  NewHTTPClient(proxyURL, timeout),
	}
}

func (f *YahooSource) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDailyBars fetches every symbol in turn. The chart API has no multi-symbol form,
// so a failing symbol is logged and left out of the result.
func (f *YahooSource) FetchDailyBars(ctx context.Context, symbols []string, start, end time.Time) (map[string][]model.Bar, error) {
	out := make(map[string][]model.Bar, len(symbols))
	var lastErr error
	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("yahoo fetch: %w", err)
		}
		bars, err := f.fetchChart(ctx, sym, start, end)
		if err != nil {
			log.Printf("[WARN] yahoo %s: %v", sym, err)
			lastErr = err
			continue
		}
		out[sym] = bars
	}
	if len(out) == 0 && lastErr != nil {
		return nil, fmt.Errorf("yahoo: no symbol returned data: %w", lastErr)
	}
	return out, nil
}

func (f *YahooSource) fetchChart(ctx context.Context, symbol string, start, end time.Time) ([]model.Bar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		f.BaseURL, url.PathEscape(YahooSymbol(symbol)), start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		b := model.Bar{
			Date:  time.Unix(ts, 0).UTC(),
			Open:  cell(quote.Open, i),
			High:  cell(quote.High, i),
			Low:   cell(quote.Low, i),
			Close: cell(quote.Close, i),
		}
		if v := cell(quote.Volume, i); v.Valid {
			b.Volume = null.IntFrom(int64(v.Float64))
		}
		bars = append(bars, b)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return dedupeByDate(bars), nil
}

// cell returns the i-th value of a column, or an invalid value when it is missing.
func cell(col []*float64, i int) null.Float {
	if i >= len(col) {
		return null.Float{}
	}
	return null.FloatFromPtr(col[i])
}

// dedupeByDate keeps the last bar of each calendar day. Yahoo sometimes appends an
// intraday bar for the current session next to the daily one.
func dedupeByDate(bars []model.Bar) []model.Bar {
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && sameDay(out[n-1].Date, b.Date) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
