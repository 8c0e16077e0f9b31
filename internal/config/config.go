package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/ncruces/go-strftime"
	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	KindYahoo   = "yahoo"
	KindService = "service"
	KindMock    = "mock"
)

// Config holds all application configuration.
type Config struct {
	Tickers      []string `yaml:"tickers" validate:"required,min=1,unique,dive,required"`
	LookbackDays int      `yaml:"lookback_days" validate:"gte=2,lte=3650"`
	Report       struct {
		Title      string `yaml:"title" validate:"required"`
		OutputDir  string `yaml:"output_dir" validate:"required"`
		DateFormat string `yaml:"date_format" validate:"required"`
	} `yaml:"report"`
	DataSource struct {
		Kind      string        `yaml:"kind" validate:"oneof=yahoo service mock"`
		BaseURL   string        `yaml:"base_url" validate:"required_if=Kind service,omitempty,url"`
		APIKey    string        `yaml:"api_key"`
		Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
		AuxLookup *bool         `yaml:"aux_lookup"`
	} `yaml:"data_source"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy" validate:"omitempty,url"`
}

// Load reads .env and the YAML file, then applies environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	// Variables already present in the environment win over .env.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.Tickers = NormalizeTickers(cfg.Tickers)
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("STOCKPULSE_TICKERS"); v != "" {
		c.Tickers = ParseTickers(v)
	}
	if v := os.Getenv("STOCKPULSE_LOOKBACK_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse STOCKPULSE_LOOKBACK_DAYS: %w", err)
		}
		c.LookbackDays = days
	}
	if v := os.Getenv("STOCKPULSE_TITLE"); v != "" {
		c.Report.Title = v
	}
	if v := os.Getenv("STOCKPULSE_OUTPUT_DIR"); v != "" {
		c.Report.OutputDir = v
	}
	if v := os.Getenv("STOCKPULSE_DATE_FORMAT"); v != "" {
		c.Report.DateFormat = v
	}
	if v := os.Getenv("PRICE_SERVICE_URL"); v != "" {
		c.DataSource.BaseURL = v
		if c.DataSource.Kind == "" {
			c.DataSource.Kind = KindService
		}
	}
	if v := os.Getenv("PRICE_SERVICE_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("STOCKPULSE_CRON"); v != "" {
		c.Schedule.Cron = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if len(c.Tickers) == 0 {
		c.Tickers = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA"}
	}
	if c.LookbackDays == 0 {
		c.LookbackDays = 30
	}
	if c.Report.Title == "" {
		c.Report.Title = "Daily Stock Report"
	}
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = "reports"
	}
	if c.Report.DateFormat == "" {
		c.Report.DateFormat = "%Y-%m-%d"
	}
	if c.DataSource.Kind == "" {
		if c.DataSource.BaseURL != "" {
			c.DataSource.Kind = KindService
		} else {
			c.DataSource.Kind = KindYahoo
		}
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.DataSource.AuxLookup == nil {
		on := true
		c.DataSource.AuxLookup = &on
	}
}

// AuxLookupEnabled reports whether the 52-week/market-cap lookup should run.
func (c *Config) AuxLookupEnabled() bool {
	return c.DataSource.AuxLookup == nil || *c.DataSource.AuxLookup
}

// Validate checks that all required fields are set and well-formed.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := strftime.Layout(c.Report.DateFormat); err != nil {
		return fmt.Errorf("report.date_format %q: %w", c.Report.DateFormat, err)
	}
	return nil
}

// ParseTickers splits a comma separated list, trimming blanks and upper-casing symbols.
func ParseTickers(s string) []string {
	return NormalizeTickers(strings.Split(s, ","))
}

// NormalizeTickers trims and upper-cases symbols and drops empty entries.
func NormalizeTickers(in []string) []string {
	var out []string
	for _, p := range in {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
