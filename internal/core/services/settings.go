package services

import (
	"fmt"

	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/core/ports/driven"
	"github.com/stancil-services/boltsync/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages the connector configuration.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Path returns where the configuration is persisted.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Get retrieves the effective configuration.
func (s *SettingsService) Get() (domain.Config, error) {
	return s.configStore.Load()
}

// Redacted retrieves the effective configuration with the token masked.
func (s *SettingsService) Redacted() (domain.Config, error) {
	cfg, err := s.configStore.Load()
	if err != nil {
		return domain.Config{}, err
	}
	return cfg.Redacted(), nil
}

// SetCredentials validates and persists the base URL and API token.
// Other settings keep their current values.
func (s *SettingsService) SetCredentials(baseURL, token string) error {
	cfg, err := s.configStore.Load()
	if err != nil {
		return err
	}

	cfg.BaseURL = baseURL
	cfg.APIToken = token
	cfg.Normalise()

	if err := s.configStore.Validate(cfg); err != nil {
		return err
	}
	if err := s.configStore.Save(cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Validate checks the effective configuration is complete enough to sync.
func (s *SettingsService) Validate() error {
	cfg, err := s.configStore.Load()
	if err != nil {
		return err
	}
	return s.configStore.Validate(cfg)
}
