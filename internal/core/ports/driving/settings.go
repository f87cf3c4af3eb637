package driving

import "github.com/stancil-services/boltsync/internal/core/domain"

// SettingsService manages the connector configuration.
type SettingsService interface {
	// Path returns where the configuration is persisted.
	Path() string

	// Get retrieves the effective configuration.
	Get() (domain.Config, error)

	// Redacted retrieves the effective configuration with the token masked.
	Redacted() (domain.Config, error)

	// SetCredentials validates and persists the base URL and API token.
	SetCredentials(baseURL, token string) error

	// Validate checks the effective configuration is complete enough to sync.
	Validate() error
}
