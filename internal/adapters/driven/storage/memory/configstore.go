package memory

import (
	"sync"

	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is an in-memory implementation of driven.ConfigStore for testing.
type ConfigStore struct {
	mu    sync.RWMutex
	cfg   domain.Config
	saves int
}

// NewConfigStore creates a new in-memory config store holding the defaults.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{cfg: domain.DefaultConfig()}
}

// Path returns a placeholder since nothing is persisted.
func (s *ConfigStore) Path() string {
	return "memory"
}

// Load returns the held configuration.
func (s *ConfigStore) Load() (domain.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, nil
}

// Save replaces the held configuration.
func (s *ConfigStore) Save(cfg domain.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.saves++
	return nil
}

// Validate only checks the credentials.
func (s *ConfigStore) Validate(cfg domain.Config) error {
	return cfg.CheckCredentials()
}

// Saves returns how many times Save was called.
func (s *ConfigStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
