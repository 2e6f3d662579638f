package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Exchange string

const (
	Binance Exchange = "binance"
	OKX     Exchange = "okx"
)

type MarketType string

const (
	Spot MarketType = "spot"
)

type RateLimitConfig struct {
	Enabled   bool `yaml:"enabled"`
	PerMinute int  `yaml:"per_minute"`
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	PushInterval time.Duration `yaml:"push_interval"`
}

type Config struct {
	Exchange    Exchange        `yaml:"exchange"`
	Symbol      string          `yaml:"symbol"`
	Timeframe   string          `yaml:"timeframe"`
	Limit       int             `yaml:"limit"`
	MarketType  MarketType      `yaml:"market_type"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	HTTPTimeout time.Duration   `yaml:"http_timeout"`
	Server      ServerConfig    `yaml:"server"`
	LogLevel    string          `yaml:"log_level"`
}

const (
	_exchangeDefault     = Binance
	_symbolDefault       = "BTC/USDT"
	_timeframeDefault    = "1m"
	_limitDefault        = 100
	_marketTypeDefault   = Spot
	_perMinuteDefault    = 1200
	_httpTimeoutDefault  = 15 * time.Second
	_serverPortDefault   = "3001"
	_pushIntervalDefault = 60 * time.Second
	_logLevelDefault     = "info"
)

// Default returns the fixed fetch parameters used when no config file is
// present: Binance spot, BTC/USDT, the last 100 one-minute candles, with
// rate limiting on.
func Default() Config {
	cfg := Config{RateLimit: RateLimitConfig{Enabled: true}}
	cfg.setup()
	return cfg
}

func (c *Config) setup() {
	if c.Exchange == "" {
		c.Exchange = _exchangeDefault
	}
	if c.Symbol == "" {
		c.Symbol = _symbolDefault
	}
	if c.Timeframe == "" {
		c.Timeframe = _timeframeDefault
	}
	if c.Limit <= 0 {
		c.Limit = _limitDefault
	}
	if c.MarketType == "" {
		c.MarketType = _marketTypeDefault
	}
	if c.RateLimit.PerMinute <= 0 {
		c.RateLimit.PerMinute = _perMinuteDefault
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = _httpTimeoutDefault
	}
	if c.Server.Port == "" {
		c.Server.Port = _serverPortDefault
	}
	if c.Server.PushInterval <= 0 {
		c.Server.PushInterval = _pushIntervalDefault
	}
	if c.LogLevel == "" {
		c.LogLevel = _logLevelDefault
	}
}

func (c *Config) ValidateAndSetup() error {
	c.setup()

	switch c.Exchange {
	case Binance, OKX:
	default:
		return fmt.Errorf("unknown exchange %q", c.Exchange)
	}

	if c.MarketType != Spot {
		return fmt.Errorf("unsupported market type %q", c.MarketType)
	}

	return nil
}

// Load reads a yaml config file. A missing file is not an error: the
// defaults apply unchanged.
func Load(filename string) (Config, error) {
	input, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("%w: can't read file", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(input, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: can't unmarshal config", err)
	}

	if err := cfg.ValidateAndSetup(); err != nil {
		return Config{}, fmt.Errorf("%w: can't setup cfg", err)
	}

	return cfg, nil
}
