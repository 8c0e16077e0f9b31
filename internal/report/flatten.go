package report

import (
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/guregu/null/v6"
)

// Card is the per-ticker summary block, all values preformatted.
type Card struct {
	Ticker       string
	Close        string
	Change       string
	ChangeColor  string
	Color        string
	Open         string
	High         string
	Low          string
	PrevClose    string
	Volume       string
	MarketCap    string
	FiftyTwoHigh string
	FiftyTwoLow  string
}

// TemplateData is the flat view handed to the HTML template.
// The JS fields are JSON arrays ready to drop into a script block.
type TemplateData struct {
	Title       string
	GeneratedAt string
	RunID       string
	Source      string
	Cards       []Card

	TickersJSON           template.JS
	DailyChangeJSON       template.JS
	DailyChangeColorsJSON template.JS
	HistoryDatesJSON      template.JS
	HistorySeriesJSON     template.JS
	VolumeJSON            template.JS
	VolumeColorsJSON      template.JS
	FiftyTwoLabelsJSON    template.JS
	FiftyTwoLowJSON       template.JS
	FiftyTwoHighJSON      template.JS
	CurrentPricesJSON     template.JS
}

// chartDataset is one line of the normalized performance chart.
type chartDataset struct {
	Label           string       `json:"label"`
	Data            []null.Float `json:"data"`
	BorderColor     string       `json:"borderColor"`
	BackgroundColor string       `json:"backgroundColor"`
	Tension         float64      `json:"tension"`
	PointRadius     int          `json:"pointRadius"`
	BorderWidth     int          `json:"borderWidth"`
	Fill            bool         `json:"fill"`
	SpanGaps        bool         `json:"spanGaps"`
}

// Flatten turns a bundle into template data.
func Flatten(b *Bundle) (*TemplateData, error) {
	n := len(b.Entries)
	var (
		changes = make([]float64, 0, n)
		colors  = make([]string, 0, n)
		volumes = make([]int64, 0, n)
		lows    = make([]float64, 0, n)
		highs   = make([]float64, 0, n)
		prices  = make([]float64, 0, n)
		series  = make([]chartDataset, 0, n)
		cards   = make([]Card, 0, n)
	)
	for _, e := range b.Entries {
		changes = append(changes, e.DailyChangePct)
		colors = append(colors, e.ChangeColor)
		volumes = append(volumes, e.Volume)
		lows = append(lows, e.FiftyTwoWeekLow)
		highs = append(highs, e.FiftyTwoWeekHigh)
		prices = append(prices, e.Close)
		series = append(series, chartDataset{
			Label:           e.Ticker,
			Data:            e.HistoryPctPadded,
			BorderColor:     e.Color,
			BackgroundColor: e.Color + "22",
			Tension:         0.3,
			PointRadius:     2,
			BorderWidth:     2,
			SpanGaps:        true,
		})
		cards = append(cards, Card{
			Ticker:       e.Ticker,
			Close:        FormatPrice(e.Close),
			Change:       FormatPct(e.DailyChangePct),
			ChangeColor:  e.ChangeColor,
			Color:        e.Color,
			Open:         FormatPrice(e.Open),
			High:         FormatPrice(e.High),
			Low:          FormatPrice(e.Low),
			PrevClose:    FormatPrice(e.PrevClose),
			Volume:       e.VolumeFmt,
			MarketCap:    e.MarketCapFmt,
			FiftyTwoHigh: FormatPrice(e.FiftyTwoWeekHigh),
			FiftyTwoLow:  FormatPrice(e.FiftyTwoWeekLow),
		})
	}

	td := &TemplateData{
		Title:       b.Title,
		GeneratedAt: b.GeneratedAt,
		RunID:       b.RunID,
		Source:      b.Source,
		Cards:       cards,
	}
	fields := []struct {
		dst *template.JS
		v   any
	}{
		{&td.TickersJSON, b.Tickers},
		{&td.DailyChangeJSON, changes},
		{&td.DailyChangeColorsJSON, colors},
		{&td.HistoryDatesJSON, b.HistoryDates},
		{&td.HistorySeriesJSON, series},
		{&td.VolumeJSON, volumes},
		// Same sign rule as the daily change bars.
		{&td.VolumeColorsJSON, colors},
		{&td.FiftyTwoLabelsJSON, b.Tickers},
		{&td.FiftyTwoLowJSON, lows},
		{&td.FiftyTwoHighJSON, highs},
		{&td.CurrentPricesJSON, prices},
	}
	for _, f := range fields {
		js, err := jsArray(f.v)
		if err != nil {
			return nil, err
		}
		*f.dst = js
	}
	return td, nil
}

func jsArray(v any) (template.JS, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode chart data: %w", err)
	}
	return template.JS(data), nil
}
