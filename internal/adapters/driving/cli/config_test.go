package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stancil-services/boltsync/internal/core/domain"
)

func TestConfigShowCmd_MasksToken(t *testing.T) {
	_, _, settings := setupServices(t)
	settings.cfg.BaseURL = "https://app.bolttech.net"
	settings.cfg.APIToken = "secret"

	out, err := execute(t, "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "/tmp/boltsync.toml")
	assert.Contains(t, out, "https://app.bolttech.net")
	assert.Contains(t, out, "********")
	assert.Contains(t, out, "3.6s")
	assert.NotContains(t, out, "secret")
}

func TestConfigShowCmd_Unset(t *testing.T) {
	setupServices(t)

	out, err := execute(t, "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "(unset)")
}

func TestConfigInitCmd_Flags(t *testing.T) {
	_, _, settings := setupServices(t)

	out, err := execute(t, "config", "init", "--base-url", "https://app.bolttech.net", "--token", "secret")

	require.NoError(t, err)
	assert.True(t, settings.saved)
	assert.Equal(t, "https://app.bolttech.net", settings.cfg.BaseURL)
	assert.Equal(t, "secret", settings.cfg.APIToken)
	assert.Contains(t, out, "Configuration saved to /tmp/boltsync.toml")
}

func TestConfigInitCmd_Prompts(t *testing.T) {
	_, _, settings := setupServices(t)

	out, err := executeWithInput(t, "https://app.bolttech.net\nsecret\n", "config", "init")

	require.NoError(t, err)
	assert.Contains(t, out, "Base URL:")
	assert.Contains(t, out, "API token:")
	assert.Equal(t, "https://app.bolttech.net", settings.cfg.BaseURL)
	assert.Equal(t, "secret", settings.cfg.APIToken)
}

func TestConfigInitCmd_EmptyToken(t *testing.T) {
	_, _, settings := setupServices(t)

	_, err := executeWithInput(t, "https://app.bolttech.net\n\n", "config", "init")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)
	assert.False(t, settings.saved)
}
