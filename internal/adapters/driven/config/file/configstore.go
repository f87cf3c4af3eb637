package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore loads the connector configuration from a TOML file and the
// environment. Environment variables take precedence over the file.
type ConfigStore struct {
	filePath string

	// environ overrides the process environment. Nil means os.Environ.
	environ map[string]string
}

// NewConfigStore creates a config store reading path.
// If path is empty, defaults to ~/.boltsync/config.toml.
func NewConfigStore(path string) (*ConfigStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".boltsync", "config.toml")
	}
	return &ConfigStore{filePath: path}, nil
}

// Path returns the path to the config file.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// WithEnvironment replaces the process environment used for overrides.
func (s *ConfigStore) WithEnvironment(environ map[string]string) *ConfigStore {
	s.environ = environ
	return s
}

// fileConfig mirrors domain.Config with durations spelled as strings ("3.6s").
type fileConfig struct {
	BaseURL        string   `toml:"base_url"`
	APIToken       string   `toml:"api_token"`
	Database       string   `toml:"database"`
	RateLimitDelay duration `toml:"rate_limit_delay"`
	RetryDelay     duration `toml:"retry_delay"`
	MaxRetries     *int     `toml:"max_retries"`
	RequestTimeout duration `toml:"request_timeout"`
	MaxEventPages  *int     `toml:"max_event_pages"`
	Tables         []string `toml:"tables"`
}

type duration struct {
	set   bool
	value time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.set = true
	d.value = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.value.String()), nil
}

// Load returns the defaults overlaid with the file (if present) and then
// the environment. A missing file is not an error.
func (s *ConfigStore) Load() (domain.Config, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(s.filePath)
	switch {
	case err == nil:
		var fc fileConfig
		if err := toml.Unmarshal(data, &fc); err != nil {
			return cfg, fmt.Errorf("%w: parse %s: %w", domain.ErrConfig, s.filePath, err)
		}
		fc.apply(&cfg)
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("%w: read %s: %w", domain.ErrConfig, s.filePath, err)
	}

	opts := env.Options{Environment: s.environ}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("%w: environment: %w", domain.ErrConfig, err)
	}

	cfg.Normalise()
	return cfg, nil
}

func (fc *fileConfig) apply(cfg *domain.Config) {
	if fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	if fc.APIToken != "" {
		cfg.APIToken = fc.APIToken
	}
	if fc.Database != "" {
		cfg.Database = fc.Database
	}
	if fc.RateLimitDelay.set {
		cfg.RateLimitDelay = fc.RateLimitDelay.value
	}
	if fc.RetryDelay.set {
		cfg.RetryDelay = fc.RetryDelay.value
	}
	if fc.MaxRetries != nil {
		cfg.MaxRetries = *fc.MaxRetries
	}
	if fc.RequestTimeout.set {
		cfg.RequestTimeout = fc.RequestTimeout.value
	}
	if fc.MaxEventPages != nil {
		cfg.MaxEventPages = *fc.MaxEventPages
	}
	if len(fc.Tables) > 0 {
		cfg.Tables = fc.Tables
	}
}

// Save writes cfg to the config file, creating its directory.
// The file is readable by the owner only since it holds the API token.
func (s *ConfigStore) Save(cfg domain.Config) error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0700); err != nil {
		return err
	}

	maxRetries := cfg.MaxRetries
	maxEventPages := cfg.MaxEventPages
	fc := fileConfig{
		BaseURL:        cfg.BaseURL,
		APIToken:       cfg.APIToken,
		Database:       cfg.Database,
		RateLimitDelay: duration{set: true, value: cfg.RateLimitDelay},
		RetryDelay:     duration{set: true, value: cfg.RetryDelay},
		MaxRetries:     &maxRetries,
		RequestTimeout: duration{set: true, value: cfg.RequestTimeout},
		MaxEventPages:  &maxEventPages,
		Tables:         cfg.Tables,
	}

	data, err := toml.Marshal(fc)
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0600)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their config key rather than the Go name.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks cfg before a sync.
func (s *ConfigStore) Validate(cfg domain.Config) error {
	return Validate(cfg)
}

// Validate checks cfg before a sync. Failures wrap domain.ErrConfig.
func Validate(cfg domain.Config) error {
	if err := cfg.CheckCredentials(); err != nil {
		return err
	}

	err := getValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", domain.ErrConfig, err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, translateError(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrConfig, strings.Join(messages, "; "))
}

func translateError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "url":
		return fe.Field() + " must be an absolute URL"
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
