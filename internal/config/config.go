package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Quotes struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"quotes"`
	Search struct {
		Endpoint    string `yaml:"endpoint"`
		APIKey      string `yaml:"api_key"`
		ResultCount int    `yaml:"result_count"`
	} `yaml:"search"`
	Resolver struct {
		PrimaryTimeoutSec int `yaml:"primary_timeout_sec"`
		CacheTTLMin       int `yaml:"cache_ttl_min"`
		MaxConcurrent     int `yaml:"max_concurrent_extractions"`
	} `yaml:"resolver"`
	Refresh struct {
		Cron       string `yaml:"cron"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"refresh"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; the defaults make
// a usable configuration on their own.
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
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("QUOTES_BASE_URL"); v != "" {
		cfg.Quotes.BaseURL = v
	}
	if v := os.Getenv("SEARCH_ENDPOINT"); v != "" {
		cfg.Search.Endpoint = v
	}
	if v := os.Getenv("SEARCH_API_KEY"); v != "" {
		cfg.Search.APIKey = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Refresh.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Search.ResultCount == 0 {
		cfg.Search.ResultCount = 5
	}
	if cfg.Resolver.PrimaryTimeoutSec == 0 {
		cfg.Resolver.PrimaryTimeoutSec = 15
	}
	if cfg.Resolver.CacheTTLMin == 0 {
		cfg.Resolver.CacheTTLMin = 60
	}
	if cfg.Resolver.MaxConcurrent == 0 {
		cfg.Resolver.MaxConcurrent = 3
	}
	if cfg.Refresh.Cron == "" {
		cfg.Refresh.Cron = "0 */5 * * * *"
	}
	if cfg.Refresh.TimeoutSec == 0 {
		cfg.Refresh.TimeoutSec = 60
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/marketpulse.db"
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Resolver.PrimaryTimeoutSec < 1 {
		return fmt.Errorf("resolver.primary_timeout_sec must be positive")
	}
	if c.Resolver.MaxConcurrent < 1 {
		return fmt.Errorf("resolver.max_concurrent_extractions must be positive")
	}
	if c.Refresh.TimeoutSec < c.Resolver.PrimaryTimeoutSec {
		return fmt.Errorf("refresh.timeout_sec must cover resolver.primary_timeout_sec")
	}
	if c.Search.Endpoint != "" && c.Search.APIKey == "" {
		return fmt.Errorf("search.api_key is required when search.endpoint is set")
	}
	return nil
}
