package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultRateLimitDelay, cfg.RateLimitDelay)
	assert.Equal(t, DefaultRetryDelay, cfg.RetryDelay)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, DefaultMaxEventPages, cfg.MaxEventPages)
	assert.Empty(t, cfg.BaseURL)
	assert.Empty(t, cfg.APIToken)
}

func TestConfig_Normalise(t *testing.T) {
	cfg := Config{BaseURL: " https://app.bolttech.net// ", APIToken: "\ttoken\n"}

	cfg.Normalise()

	assert.Equal(t, "https://app.bolttech.net", cfg.BaseURL)
	assert.Equal(t, "token", cfg.APIToken)
}

func TestConfig_CheckCredentials(t *testing.T) {
	assert.ErrorIs(t, (&Config{}).CheckCredentials(), ErrConfig)
	assert.ErrorIs(t, (&Config{BaseURL: "https://x"}).CheckCredentials(), ErrConfig)
	assert.ErrorIs(t, (&Config{APIToken: "t"}).CheckCredentials(), ErrConfig)
	assert.NoError(t, (&Config{BaseURL: "https://x", APIToken: "t"}).CheckCredentials())
}

func TestConfig_Redacted(t *testing.T) {
	cfg := Config{BaseURL: "https://x", APIToken: "secret"}

	out := cfg.Redacted()

	assert.Equal(t, "********", out.APIToken)
	assert.Equal(t, "secret", cfg.APIToken)
	assert.Empty(t, Config{}.Redacted().APIToken)
}
