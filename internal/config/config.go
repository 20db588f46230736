// Package config handles loading and validating the storefront client
// configuration from YAML files with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level client configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Catalog CatalogConfig `yaml:"catalog"`
	Scroll  ScrollConfig  `yaml:"scroll"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig defines the storefront API endpoint settings.
//
// RetryAttempts and RetryDelay are accepted for compatibility with the
// original client configuration but are not consumed by the HTTP
// client: requests are never retried automatically.
type APIConfig struct {
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
	RetryAttempts int           `yaml:"retry_attempts"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
}

// StorageConfig defines where session tokens are persisted.
// An empty TokenPath keeps tokens in memory for the process lifetime.
type StorageConfig struct {
	TokenPath string `yaml:"token_path"`
}

// CatalogConfig defines product list behavior.
// FallbackDimensions lists the filter dimensions applied by the
// in-memory fallback when the server filter endpoint fails.
type CatalogConfig struct {
	FallbackDimensions []string `yaml:"fallback_dimensions"`
}

// ScrollConfig defines infinite scroll trigger settings.
type ScrollConfig struct {
	Threshold   float64       `yaml:"threshold"`    // px from bottom
	MinInterval time.Duration `yaml:"min_interval"` // between evaluations
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

const defaultBaseURL = "https://closet-recruiting-api.azurewebsites.net/api"

var knownFallbackDimensions = map[string]bool{
	"pricing_option": true,
	"price_range":    true,
}

// Load reads and parses a YAML config file, performing environment
// variable substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyAPIDefaults(&cfg.API)
	applyCatalogDefaults(&cfg.Catalog)
	applyScrollDefaults(&cfg.Scroll)
	applyLoggingDefaults(&cfg.Logging)
}

func applyAPIDefaults(a *APIConfig) {
	if a.BaseURL == "" {
		a.BaseURL = defaultBaseURL
	}
	if a.Timeout == 0 {
		a.Timeout = 10 * time.Second
	}
	if a.RetryAttempts == 0 {
		a.RetryAttempts = 3
	}
	if a.RetryDelay == 0 {
		a.RetryDelay = time.Second
	}
}

func applyCatalogDefaults(c *CatalogConfig) {
	if len(c.FallbackDimensions) == 0 {
		c.FallbackDimensions = []string{"pricing_option"}
	}
}

func applyScrollDefaults(s *ScrollConfig) {
	if s.Threshold == 0 {
		s.Threshold = 100
	}
	if s.MinInterval == 0 {
		s.MinInterval = 300 * time.Millisecond
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	if !strings.HasPrefix(cfg.API.BaseURL, "http://") &&
		!strings.HasPrefix(cfg.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative, got %s", cfg.API.Timeout)
	}
	if cfg.Scroll.Threshold < 0 {
		return fmt.Errorf("scroll.threshold must not be negative, got %v", cfg.Scroll.Threshold)
	}
	for _, dim := range cfg.Catalog.FallbackDimensions {
		if !knownFallbackDimensions[dim] {
			return fmt.Errorf("unknown catalog.fallback_dimensions entry %q", dim)
		}
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", cfg.Logging.Format)
	}
	return nil
}
