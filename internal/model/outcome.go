package model

// SkipReason explains why a ticker did not produce metrics.
type SkipReason string

const (
	SkipNone             SkipReason = ""
	SkipMissingData      SkipReason = "missing_data"
	SkipInsufficientData SkipReason = "insufficient_data"
	SkipZeroBasePrice    SkipReason = "zero_base_price"
	SkipProcessingError  SkipReason = "processing_error"
)

// Outcome is the per-ticker result of a collection: either Metrics or a Skip reason.
type Outcome struct {
	Ticker  string
	Metrics *TickerMetrics
	Skip    SkipReason
	Err     error
}

// OK reports whether the ticker produced metrics.
func (o Outcome) OK() bool {
	return o.Metrics != nil && o.Skip == SkipNone
}

// Skipped builds a skip outcome.
func Skipped(ticker string, reason SkipReason, err error) Outcome {
	return Outcome{Ticker: ticker, Skip: reason, Err: err}
}
