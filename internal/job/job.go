package job

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"StockPulse/internal/collector"
	"StockPulse/internal/model"
	"StockPulse/internal/report"
)

// Settings are the report values a run needs from the configuration.
type Settings struct {
	Tickers    []string
	Title      string
	OutputDir  string
	DateFormat string
}

// Job runs one collect, assemble, render and write cycle.
type Job struct {
	Settings  Settings
	Collector *collector.Collector
	Renderer  *report.Renderer
	Out       io.Writer
	Now       func() time.Time
}

// New creates a Job that prints its summary to stdout.
func New(s Settings, col *collector.Collector, r *report.Renderer) *Job {
	return &Job{
		Settings:  s,
		Collector: col,
		Renderer:  r,
		Out:       os.Stdout,
		Now:       time.Now,
	}
}

// Run produces one report and returns its path.
// It returns report.ErrNoData, without writing a file, when no ticker has data.
func (j *Job) Run(ctx context.Context) (string, error) {
	runID := uuid.NewString()
	now := j.Now()

	log.Printf("[INFO] run %s: Fetching data for: %s", runID, strings.Join(j.Settings.Tickers, ", "))
	outcomes, err := j.Collector.Collect(ctx, j.Settings.Tickers)
	if err != nil {
		return "", fmt.Errorf("collect: %w", err)
	}

	var skipped []model.Outcome
	for _, o := range outcomes {
		if !o.OK() {
			log.Printf("[WARN] run %s: skipped %s: %s", runID, o.Ticker, o.Skip)
			skipped = append(skipped, o)
		}
	}

	metrics := collector.Successful(outcomes)
	if len(metrics) == 0 {
		log.Printf("[WARN] run %s: No data fetched. Exiting.", runID)
		return "", report.ErrNoData
	}

	bundle, err := report.Assemble(j.Settings.Tickers, metrics, report.Options{
		Title:   j.Settings.Title,
		RunID:   runID,
		Source:  j.Collector.Source.Name(),
		Now:     now,
		Skipped: skipped,
	})
	if err != nil {
		return "", fmt.Errorf("assemble: %w", err)
	}

	data, err := report.Flatten(bundle)
	if err != nil {
		return "", fmt.Errorf("flatten: %w", err)
	}
	html, err := j.Renderer.Render(data)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	path, err := report.WriteReport(j.Settings.OutputDir, j.Settings.DateFormat, now, html)
	if err != nil {
		return "", err
	}
	log.Printf("[INFO] run %s: %d tickers, %d skipped, report %s", runID, len(bundle.Entries), len(skipped), path)

	if j.Out != nil {
		fmt.Fprint(j.Out, report.FormatRunSummary(bundle, path))
	}
	return path, nil
}
