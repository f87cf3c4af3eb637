package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stancil-services/boltsync/internal/adapters/driven/storage/memory"
	"github.com/stancil-services/boltsync/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	cfg, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
	assert.Equal(t, "memory", service.Path())
}

func TestSettingsService_Validate_MissingCredentials(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	err := service.Validate()

	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestSettingsService_SetCredentials(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	err := service.SetCredentials(" https://app.bolttech.net/ ", " secret ")

	require.NoError(t, err)
	assert.Equal(t, 1, store.Saves())

	cfg, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "https://app.bolttech.net", cfg.BaseURL)
	assert.Equal(t, "secret", cfg.APIToken)
	assert.Equal(t, domain.DefaultMaxRetries, cfg.MaxRetries)
	assert.NoError(t, service.Validate())
}

func TestSettingsService_SetCredentials_RejectsEmptyToken(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	err := service.SetCredentials("https://app.bolttech.net", "   ")

	assert.ErrorIs(t, err, domain.ErrConfig)
	assert.Equal(t, 0, store.Saves())
}

func TestSettingsService_Redacted(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)
	require.NoError(t, service.SetCredentials("https://app.bolttech.net", "secret"))

	cfg, err := service.Redacted()

	require.NoError(t, err)
	assert.Equal(t, "********", cfg.APIToken)
	assert.Equal(t, "https://app.bolttech.net", cfg.BaseURL)
}
