package domain

import (
	"fmt"
	"strings"
	"time"
)

// Default connector settings.
const (
	// DefaultRateLimitDelay keeps the connector under 1000 calls per hour.
	DefaultRateLimitDelay = 3600 * time.Millisecond

	// DefaultRetryDelay is the backoff unit. Retry n waits n units.
	DefaultRetryDelay = 5 * time.Second

	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 3

	// DefaultRequestTimeout bounds a single HTTP request.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultMaxEventPages bounds the pages read from one event stream per run.
	DefaultMaxEventPages = 10000
)

// Config holds the connector configuration.
type Config struct {
	// BaseURL is the API root, e.g. "https://app.bolttech.net".
	BaseURL string `toml:"base_url" env:"BOLT_BASE_URL" validate:"required,url"`

	// APIToken authenticates every request.
	APIToken string `toml:"api_token" env:"BOLT_API_TOKEN" validate:"required"`

	// Database is the SQLite file rows and checkpoints are written to.
	Database string `toml:"database" env:"BOLTSYNC_DB"`

	// RateLimitDelay is the minimum interval between two requests.
	RateLimitDelay time.Duration `toml:"rate_limit_delay" env:"BOLTSYNC_RATE_LIMIT_DELAY" validate:"gte=0"`

	// RetryDelay is the linear backoff unit.
	RetryDelay time.Duration `toml:"retry_delay" env:"BOLTSYNC_RETRY_DELAY" validate:"gte=0"`

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int `toml:"max_retries" env:"BOLTSYNC_MAX_RETRIES" validate:"gte=0,lte=10"`

	// RequestTimeout bounds a single HTTP request.
	RequestTimeout time.Duration `toml:"request_timeout" env:"BOLTSYNC_REQUEST_TIMEOUT" validate:"gte=0"`

	// MaxEventPages bounds the pages read from one event stream per run.
	MaxEventPages int `toml:"max_event_pages" env:"BOLTSYNC_MAX_EVENT_PAGES" validate:"gte=0"`

	// Tables restricts a run to these tables. Empty means all.
	Tables []string `toml:"tables" env:"BOLTSYNC_TABLES" envSeparator:","`
}

// DefaultConfig returns a config with every optional field defaulted.
func DefaultConfig() Config {
	return Config{
		RateLimitDelay: DefaultRateLimitDelay,
		RetryDelay:     DefaultRetryDelay,
		MaxRetries:     DefaultMaxRetries,
		RequestTimeout: DefaultRequestTimeout,
		MaxEventPages:  DefaultMaxEventPages,
	}
}

// Normalise strips the trailing slash of BaseURL and surrounding whitespace.
func (c *Config) Normalise() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.APIToken = strings.TrimSpace(c.APIToken)
}

// CheckCredentials reports a missing base URL or token with ErrConfig.
func (c *Config) CheckCredentials() error {
	if c.BaseURL == "" || c.APIToken == "" {
		return fmt.Errorf("%w: base_url and api_token are required", ErrConfig)
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.APIToken != "" {
		c.APIToken = "********"
	}
	return c
}
