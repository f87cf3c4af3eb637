package driven

import "github.com/stancil-services/boltsync/internal/core/domain"

// ConfigStore provides access to the connector configuration.
// Implementations handle persistence (e.g., TOML files) and overrides.
type ConfigStore interface {
	// Path returns where the configuration is persisted.
	Path() string

	// Load returns the effective configuration with defaults applied.
	// Credentials may be missing. Use Validate before syncing.
	Load() (domain.Config, error)

	// Save persists the configuration.
	Save(cfg domain.Config) error

	// Validate checks that cfg is complete enough to sync.
	// Failures wrap domain.ErrConfig.
	Validate(cfg domain.Config) error
}
