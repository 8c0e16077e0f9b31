package report

import (
	"fmt"
	"strings"
)

// FormatRunSummary formats the console summary printed after a run.
func FormatRunSummary(b *Bundle, path string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s | %s\n", b.Title, b.GeneratedAt))
	sb.WriteString(fmt.Sprintf("Source: %s | Run: %s\n\n", b.Source, b.RunID))

	sb.WriteString(fmt.Sprintf("%-8s %10s %9s %9s %10s\n", "TICKER", "CLOSE", "CHANGE", "VOLUME", "MKT CAP"))
	for _, e := range b.Entries {
		sb.WriteString(fmt.Sprintf("%-8s %10s %9s %9s %10s\n",
			e.Ticker, FormatPrice(e.Close), FormatPct(e.DailyChangePct), e.VolumeFmt, e.MarketCapFmt))
	}

	if len(b.Skipped) > 0 {
		sb.WriteString("\nSkipped:\n")
		for _, o := range b.Skipped {
			if o.Err != nil {
				sb.WriteString(fmt.Sprintf("  %-8s %s (%v)\n", o.Ticker, o.Skip, o.Err))
				continue
			}
			sb.WriteString(fmt.Sprintf("  %-8s %s\n", o.Ticker, o.Skip))
		}
	}

	if path != "" {
		sb.WriteString(fmt.Sprintf("\nReport saved to: %s\n", path))
	}
	return sb.String()
}
