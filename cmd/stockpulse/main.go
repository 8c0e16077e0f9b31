package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"StockPulse/internal/collector"
	"StockPulse/internal/config"
	"StockPulse/internal/job"
	"StockPulse/internal/report"
	"StockPulse/internal/scheduler"
)

// exitNoReport is returned when no ticker had data and no report was written.
const exitNoReport = 3

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "path to the YAML config file")
	tickers := flag.String("tickers", "", "comma separated tickers, overrides the config")
	once := flag.Bool("once", false, "run a single report even when a schedule is configured")
	flag.Parse()

	log.Println("[INFO] StockPulse starting...")

	// Load config
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if *tickers != "" {
		cfg.Tickers = config.ParseTickers(*tickers)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init source
	var src collector.Source
	switch cfg.DataSource.Kind {
	case config.KindService:
		src = collector.NewServiceSource(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.Timeout)
	case config.KindMock:
		src = &collector.MockSource{Price: 100}
	default:
		src = collector.NewYahooSource(cfg.Proxy, cfg.DataSource.Timeout)
	}
	log.Printf("[INFO] data source: %s", src.Name())

	col := collector.NewCollector(src, collector.NoopLookup{}, cfg.LookbackDays, cfg.DataSource.Timeout)

	// 52-week/market-cap lookup, rebuilt for every run
	if cfg.AuxLookupEnabled() && cfg.DataSource.Kind != config.KindMock {
		client := collector.NewHTTPClient(cfg.Proxy, cfg.DataSource.Timeout)
		col.NewLookup = func() collector.RangeLookup {
			return collector.NewEquityLookup(cfg.Tickers, client)
		}
	}
	renderer, err := report.NewRenderer()
	if err != nil {
		log.Fatalf("[FATAL] init renderer: %v", err)
	}
	j := job.New(job.Settings{
		Tickers:    cfg.Tickers,
		Title:      cfg.Report.Title,
		OutputDir:  cfg.Report.OutputDir,
		DateFormat: cfg.Report.DateFormat,
	}, col, renderer)

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once || cfg.Schedule.Cron == "" {
		path, err := j.Run(ctx)
		if errors.Is(err, report.ErrNoData) {
			log.Println("[WARN] no report produced")
			stop()
			os.Exit(exitNoReport)
		}
		if err != nil {
			log.Fatalf("[FATAL] run report: %v", err)
		}
		log.Printf("[INFO] Report saved to: %s", path)
		return
	}

	sched := scheduler.NewScheduler(ctx, j)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing report task now")
		go sched.RunNow()
	}

	log.Printf("[INFO] StockPulse is running on %q. Press Ctrl+C to stop.", cfg.Schedule.Cron)
	<-ctx.Done()
	log.Println("[INFO] shutdown signal received, stopping...")
}
