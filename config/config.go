package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the complete desk configuration
type Config struct {
	Feed      FeedConfig      `json:"feed" yaml:"feed"`
	Portfolio PortfolioConfig `json:"portfolio" yaml:"portfolio"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Server    ServerConfig    `json:"server" yaml:"server"`
}

// FeedConfig contains price feed parameters
type FeedConfig struct {
	Interval       string  `json:"interval" yaml:"interval"` // e.g. "3s", "500ms"
	Volatility     float64 `json:"volatility" yaml:"volatility"`
	Seed           int64   `json:"seed,omitempty" yaml:"seed,omitempty"` // 0 seeds from the clock
	AlertThreshold float64 `json:"alert_threshold" yaml:"alert_threshold"`
}

// ParseInterval converts the interval string to time.Duration
func (f FeedConfig) ParseInterval() (time.Duration, error) {
	if f.Interval == "" {
		return 0, nil
	}
	return time.ParseDuration(f.Interval)
}

// PortfolioConfig is the opening state of the ledger
type PortfolioConfig struct {
	Positions []PositionConfig `json:"positions,omitempty" yaml:"positions,omitempty"`
	Watchlist []string         `json:"watchlist,omitempty" yaml:"watchlist,omitempty"`
}

type PositionConfig struct {
	Symbol       string          `json:"symbol" yaml:"symbol"`
	Shares       decimal.Decimal `json:"shares" yaml:"shares"`
	AveragePrice decimal.Decimal `json:"average_price" yaml:"average_price"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type           string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile     string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	ValuationsFile string `json:"valuations_file,omitempty" yaml:"valuations_file,omitempty"`
	DBPath         string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	d, err := c.Feed.ParseInterval()
	if err != nil {
		return fmt.Errorf("feed.interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("feed.interval must be positive")
	}
	if c.Feed.Volatility <= 0 || c.Feed.Volatility > 1 {
		return fmt.Errorf("feed.volatility must be between 0 and 1")
	}
	if c.Feed.AlertThreshold < 0 {
		return fmt.Errorf("feed.alert_threshold must not be negative")
	}

	seen := map[string]bool{}
	for i, p := range c.Portfolio.Positions {
		sym := strings.ToUpper(strings.TrimSpace(p.Symbol))
		if sym == "" {
			return fmt.Errorf("portfolio.positions[%d].symbol is required", i)
		}
		if seen[sym] {
			return fmt.Errorf("portfolio.positions: duplicate symbol %s", sym)
		}
		seen[sym] = true
		if !p.Shares.IsPositive() {
			return fmt.Errorf("portfolio.positions[%d].shares must be positive", i)
		}
		if !p.AveragePrice.IsPositive() {
			return fmt.Errorf("portfolio.positions[%d].average_price must be positive", i)
		}
	}
	for i, s := range c.Portfolio.Watchlist {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("portfolio.watchlist[%d] is empty", i)
		}
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.ValuationsFile == "" {
			return fmt.Errorf("journal trades_file and valuations_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// Default returns the reference desk: the demo portfolio and watchlist, a
// three second feed and no journal.
func Default() *Config {
	return &Config{
		Feed: FeedConfig{
			Interval:       "3s",
			Volatility:     0.01,
			AlertThreshold: 0.5,
		},
		Portfolio: PortfolioConfig{
			Positions: []PositionConfig{
				{Symbol: "AAPL", Shares: decimal.NewFromInt(10), AveragePrice: decimal.RequireFromString("155.50")},
				{Symbol: "MSFT", Shares: decimal.NewFromInt(5), AveragePrice: decimal.RequireFromString("310.25")},
				{Symbol: "TSLA", Shares: decimal.NewFromInt(8), AveragePrice: decimal.RequireFromString("200.15")},
			},
			Watchlist: []string{"GOOGL", "AMZN", "META", "NFLX"},
		},
		Journal: JournalConfig{
			Type: "none",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
