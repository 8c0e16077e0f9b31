package report

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

type unit struct {
	size   float64
	suffix string
	places int32
}

var (
	capUnits = []unit{
		{1e12, "T", 2},
		{1e9, "B", 2},
		{1e6, "M", 2},
	}
	volumeUnits = []unit{
		{1e9, "B", 2},
		{1e6, "M", 2},
		{1e3, "K", 1},
	}
)

// scaled formats v with the largest unit whose threshold it reaches.
func scaled(v float64, units []unit) (decimal.Decimal, unit, bool) {
	for _, u := range units {
		if v >= u.size {
			return decimal.NewFromFloat(v / u.size).Round(u.places), u, true
		}
	}
	return decimal.Decimal{}, unit{}, false
}

// FormatMarketCap renders a market cap as $X.XXT/B/M, a comma-grouped dollar amount, or N/A.
// The unit is picked by threshold alone; a mantissa that rounds up to 1000 reads as
// 1.00 of that unit, so 999,999,999,999 is $1.00B.
func FormatMarketCap(v null.Int) string {
	if !v.Valid {
		return "N/A"
	}
	d, u, ok := scaled(float64(v.Int64), capUnits)
	if !ok {
		return "$" + humanize.Comma(v.Int64)
	}
	if d.GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		d = d.Div(decimal.NewFromInt(1000)).Round(u.places)
	}
	return "$" + d.StringFixed(u.places) + u.suffix
}

// FormatVolume renders a share volume as X.XXB/M, X.XK or a plain integer.
func FormatVolume(v int64) string {
	d, u, ok := scaled(float64(v), volumeUnits)
	if !ok {
		return fmt.Sprintf("%d", v)
	}
	return d.StringFixed(u.places) + u.suffix
}

// FormatPct renders a signed percentage, e.g. +1.23%.
func FormatPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// FormatPrice renders a price with two decimals.
func FormatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
