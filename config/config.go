// Package config loads the sg configuration.
package config

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/etnz/stockgains"
	"github.com/etnz/stockgains/yahoo"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"gopkg.in/yaml.v3"
)

// DefaultIndices are the indices of interest when none is configured.
var DefaultIndices = []string{
	"^NDX",      // NASDAQ-100
	"^GSPC",     // S&P 500
	"^AXJO",     // ASX 200
	"^N225",     // Nikkei 225
	"^HSI",      // Hang Seng
	"^FTSE",     // FTSE 100
	"^STOXX50E", // EURO STOXX 50
	"^NSEI",     // Nifty 50
	"GC=F",      // gold futures
	"AUDUSD=X",
	"BTC-USD",
	"^VIX",
}

// CacheOff disables the market data cache.
const CacheOff = "off"

// Config holds all sg configuration.
type Config struct {
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Currency string `yaml:"currency"`
	Market   struct {
		BaseURL   string        `yaml:"base_url"`
		ChartURL  string        `yaml:"chart_url"`
		Timeout   time.Duration `yaml:"timeout"`
		RateLimit int           `yaml:"rate_limit"`
		Cache     string        `yaml:"cache"` // directory, or "off"
	} `yaml:"market"`
	Indices []string `yaml:"indices"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// DefaultPath returns the default location of the configuration file.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "sg.yaml"
	}
	return filepath.Join(dir, "stockgains", "sg.yaml")
}

// Load reads config from a YAML file, then applies environment variable overrides
// and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SG_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("SG_CURRENCY"); v != "" {
		cfg.Currency = v
	}
	if v := os.Getenv("SG_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SG_MARKET_BASE_URL"); v != "" {
		cfg.Market.BaseURL = v
	}

	// Defaults
	if cfg.Database.Path == "" {
		cfg.Database.Path = defaultDatabasePath()
	}
	if cfg.Currency == "" {
		cfg.Currency = stockgains.DefaultCurrency
	}
	cfg.Currency = strings.ToUpper(cfg.Currency)
	if cfg.Market.BaseURL == "" {
		cfg.Market.BaseURL = yahoo.DefaultBaseURL
	}
	if cfg.Market.ChartURL == "" {
		cfg.Market.ChartURL = yahoo.DefaultChartURL
	}
	if cfg.Market.Timeout == 0 {
		cfg.Market.Timeout = yahoo.DefaultTimeout
	}
	if cfg.Market.RateLimit == 0 {
		cfg.Market.RateLimit = yahoo.DefaultRateLimit
	}
	if cfg.Market.Cache == "" {
		cfg.Market.Cache = filepath.Join(os.TempDir(), "stockgains")
	}
	if len(cfg.Indices) == 0 {
		cfg.Indices = DefaultIndices
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}

	return cfg, nil
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "stockgains.db"
	}
	return filepath.Join(home, ".stockgains", "stockgains.db")
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if money.GetCurrency(c.Currency) == nil {
		return fmt.Errorf("currency %q is not an ISO 4217 code", c.Currency)
	}
	if c.Market.Timeout < 0 {
		return fmt.Errorf("market.timeout must be positive")
	}
	if c.Market.RateLimit <= 0 {
		return fmt.Errorf("market.rate_limit must be positive")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("logging.level %q is not a log level", c.Logging.Level)
	}
	return nil
}

// CacheDir returns the market data cache directory, empty when disabled.
func (c *Config) CacheDir() string {
	if c.Market.Cache == CacheOff {
		return ""
	}
	return c.Market.Cache
}

// NewLogger returns the console logger at the configured level.
func (c *Config) NewLogger() arbor.ILogger {
	return arbor.NewLogger().WithConsoleWriter(models.WriterConfiguration{
		Type:             models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString(c.Logging.Level)
}

// MarketOptions returns the yahoo client options of the configuration.
func (c *Config) MarketOptions(logger arbor.ILogger) []yahoo.ClientOption {
	return []yahoo.ClientOption{
		yahoo.WithBaseURL(c.Market.BaseURL),
		yahoo.WithChartURL(c.Market.ChartURL),
		yahoo.WithHTTPClient(&http.Client{Timeout: c.Market.Timeout}),
		yahoo.WithRateLimit(c.Market.RateLimit),
		yahoo.WithCurrency(c.Currency),
		yahoo.WithDailyCache(c.CacheDir()),
		yahoo.WithLogger(logger),
	}
}
