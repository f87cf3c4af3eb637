package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "verbose", "log-format"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_RejectsUnknownLogFormat(t *testing.T) {
	setupServices(t)
	defer func() { logFormat = "console" }()

	_, err := execute(t, "version", "--log-format", "xml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestRootCmd_BootstrapWiresServices(t *testing.T) {
	setupServices(t)
	orch := &mockSyncOrchestrator{run: sampleRun()}

	var gotOpts Options
	closed := false
	SetBootstrap(func(_ context.Context, opts Options) (*App, error) {
		gotOpts = opts
		return &App{
			Settings:  &mockSettingsService{},
			Sync:      orch,
			State:     &mockStateService{},
			Catalogue: mockCatalogue{},
			Close: func() error {
				closed = true
				return nil
			},
		}, nil
	})
	defer SetBootstrap(nil)
	defer func() { cfgFile = "" }()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"sync", "--config", "/tmp/custom.toml"})
	defer rootCmd.SetArgs(nil)

	err := Execute()

	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.toml", gotOpts.ConfigPath)
	assert.Equal(t, 1, orch.calls)
	assert.True(t, closed)
}

func TestRootCmd_VersionSkipsBootstrap(t *testing.T) {
	setupServices(t)
	called := false
	SetBootstrap(func(context.Context, Options) (*App, error) {
		called = true
		return &App{}, nil
	})
	defer SetBootstrap(nil)

	_, err := execute(t, "version")

	require.NoError(t, err)
	assert.False(t, called)
}
