package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/mahamusharaf/vastr-storefront/pkg/config"
)

// Config holds all configuration for the storefront client.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Catalog API
	APIBaseURL  string        `env:"STOREFRONT_API_BASE_URL" envDefault:"https://vastrfashion.com"`
	HTTPTimeout time.Duration `env:"STOREFRONT_HTTP_TIMEOUT" envDefault:"0"`

	// Local storage
	StoragePath string `env:"STOREFRONT_STORAGE_PATH" envDefault:""`

	// Listing page size
	PageLimit int `env:"STOREFRONT_PAGE_LIMIT" envDefault:"24"`

	// Circuit breaker on the catalog transport
	CircuitBreakerEnabled bool `env:"STOREFRONT_CIRCUIT_BREAKER_ENABLED" envDefault:"false"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API base URL: %q", c.APIBaseURL)
	}
	if c.PageLimit < 1 {
		return fmt.Errorf("invalid page limit: %d", c.PageLimit)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("invalid HTTP timeout: %s", c.HTTPTimeout)
	}
	return nil
}
