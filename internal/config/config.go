package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr           string `yaml:"addr"`
		RateLimit      int    `yaml:"rate_limit"`        // requests per client per window
		RateLimitEvery string `yaml:"rate_limit_window"` // Go duration
	} `yaml:"server"`
	Rates struct {
		CSVPath    string `yaml:"csv_path"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"rates"`
	Market struct {
		BaseURL string `yaml:"base_url"` // generic bars API; empty uses Yahoo
		APIKey  string `yaml:"api_key"`
		Timeout string `yaml:"timeout"`
		Mock    bool   `yaml:"mock"`
	} `yaml:"market"`
	Cache struct {
		RedisAddr     string `yaml:"redis_addr"`
		RedisPassword string `yaml:"redis_password"`
		RedisDB       int    `yaml:"redis_db"`
		TTL           string `yaml:"ttl"`
	} `yaml:"cache"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Digest struct {
		Cron              string   `yaml:"cron"`
		Tickers           []string `yaml:"tickers"`
		InitialInvestment float64  `yaml:"initial_investment"`
	} `yaml:"digest"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
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

	// Environment variable overrides
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("RATES_CSV"); v != "" {
		cfg.Rates.CSVPath = v
	}
	if v := os.Getenv("RATES_SQLITE"); v != "" {
		cfg.Rates.SQLitePath = v
	}
	if v := os.Getenv("MARKET_BASE_URL"); v != "" {
		cfg.Market.BaseURL = v
	}
	if v := os.Getenv("MARKET_API_KEY"); v != "" {
		cfg.Market.APIKey = v
	}
	if v := os.Getenv("MARKET_MOCK"); v == "true" || v == "1" {
		cfg.Market.Mock = true
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DIGEST_CRON"); v != "" {
		cfg.Digest.Cron = v
	}
	if v := os.Getenv("DIGEST_TICKERS"); v != "" {
		cfg.Digest.Tickers = splitList(v)
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.RateLimit == 0 {
		cfg.Server.RateLimit = 30
	}
	if cfg.Server.RateLimitEvery == "" {
		cfg.Server.RateLimitEvery = "1m"
	}
	if cfg.Rates.CSVPath == "" && cfg.Rates.SQLitePath == "" {
		cfg.Rates.CSVPath = "data/interest_rates.csv"
	}
	if cfg.Market.Timeout == "" {
		cfg.Market.Timeout = "30s"
	}
	if cfg.Cache.TTL == "" {
		cfg.Cache.TTL = "6h"
	}
	if cfg.Digest.Cron == "" {
		cfg.Digest.Cron = "0 0 8 * * 1"
	}
	if cfg.Digest.InitialInvestment == 0 {
		cfg.Digest.InitialInvestment = 100000
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that all required fields are set and well formed.
func (c *Config) Validate() error {
	if c.Rates.CSVPath != "" && c.Rates.SQLitePath != "" {
		return fmt.Errorf("rates.csv_path and rates.sqlite_path are mutually exclusive")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	for name, v := range map[string]string{
		"server.rate_limit_window": c.Server.RateLimitEvery,
		"market.timeout":           c.Market.Timeout,
		"cache.ttl":                c.Cache.TTL,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.RateLimitWindow() <= 0 {
		return fmt.Errorf("server.rate_limit_window must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if len(c.Digest.Tickers) > 0 && c.Telegram.BotToken == "" {
		return fmt.Errorf("digest.tickers requires telegram to be configured")
	}
	if c.Digest.InitialInvestment <= 0 {
		return fmt.Errorf("digest.initial_investment must be positive")
	}
	return nil
}

// TelegramEnabled reports whether the Telegram surface should start.
func (c *Config) TelegramEnabled() bool { return c.Telegram.BotToken != "" }

// MarketTimeout returns the parsed market.timeout. Call after Validate.
func (c *Config) MarketTimeout() time.Duration { return mustDuration(c.Market.Timeout) }

// CacheTTL returns the parsed cache.ttl. Call after Validate.
func (c *Config) CacheTTL() time.Duration { return mustDuration(c.Cache.TTL) }

// RateLimitWindow returns the parsed server.rate_limit_window. Call after Validate.
func (c *Config) RateLimitWindow() time.Duration { return mustDuration(c.Server.RateLimitEvery) }

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
