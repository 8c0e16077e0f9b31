package collector

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/guregu/null/v6"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
	"github.com/pkg/errors"

	"StockPulse/internal/model"
)

// EquityLookup answers 52-week range and market cap from Yahoo equity quotes.
// The first lookup fetches all symbols in one batch; later lookups hit the cache.
// A lookup lives for one run; build a new one per run to pick up fresh data.
type EquityLookup struct {
	Symbols []string

	// List fetches range data for a batch of Yahoo symbols. Defaults to listEquities.
	List func(symbols []string) (map[string]model.RangeInfo, error)

	once  sync.Once
	cache map[string]model.RangeInfo
}

// NewEquityLookup creates a lookup for the given symbols. A non-nil client replaces
// the finance-go default so proxy and timeout settings apply.
func NewEquityLookup(symbols []string, client *http.Client) *EquityLookup {
	if client != nil {
		finance.SetHTTPClient(client)
	}
	return &EquityLookup{Symbols: symbols, List: listEquities}
}

// TryGetRange never fails loudly: any problem is logged and reported as absent.
func (l *EquityLookup) TryGetRange(ctx context.Context, symbol string) (model.RangeInfo, bool) {
	l.once.Do(func() {
		if err := ctx.Err(); err != nil {
			log.Printf("[WARN] equity lookup skipped: %v", err)
			return
		}
		symbols := l.Symbols
		if len(symbols) == 0 {
			symbols = []string{symbol}
		}
		cache, err := l.fetch(symbols)
		if err != nil {
			log.Printf("[WARN] equity lookup: %v", err)
		}
		l.cache = cache
	})
	info, ok := l.cache[symbol]
	if !ok {
		return model.RangeInfo{}, false
	}
	return info, true
}

// fetch runs the batch call with Yahoo symbols and keys the answers by configured symbol.
func (l *EquityLookup) fetch(symbols []string) (cache map[string]model.RangeInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			cache, err = nil, fmt.Errorf("equity lookup panic: %v", r)
		}
	}()

	list := l.List
	if list == nil {
		list = listEquities
	}
	query := make([]string, 0, len(symbols))
	configured := make(map[string][]string, len(symbols))
	for _, s := range symbols {
		ys := YahooSymbol(s)
		if _, seen := configured[ys]; !seen {
			query = append(query, ys)
		}
		configured[ys] = append(configured[ys], s)
	}

	answers, err := list(query)
	cache = make(map[string]model.RangeInfo, len(answers))
	for ys, info := range answers {
		for _, s := range configured[ys] {
			cache[s] = info
		}
	}
	return cache, err
}

func listEquities(symbols []string) (map[string]model.RangeInfo, error) {
	out := make(map[string]model.RangeInfo, len(symbols))
	iter := equity.List(symbols)
	for iter.Next() {
		eq := iter.Equity()
		if eq == nil {
			continue
		}
		info := model.RangeInfo{
			High52w: eq.FiftyTwoWeekHigh,
			Low52w:  eq.FiftyTwoWeekLow,
		}
		if eq.MarketCap > 0 {
			info.MarketCap = null.IntFrom(eq.MarketCap)
		}
		out[eq.Symbol] = info
	}
	if err := iter.Err(); err != nil {
		return out, errors.Wrap(err, "failed to list equities from Yahoo Finance")
	}
	return out, nil
}
