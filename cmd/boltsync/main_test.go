package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stancil-services/boltsync/internal/adapters/driven/config/file"
	"github.com/stancil-services/boltsync/internal/adapters/driving/cli"
	"github.com/stancil-services/boltsync/internal/connectors/bolt"
	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/logger"
)

func writeConfig(t *testing.T, cfg domain.Config) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	store, err := file.NewConfigStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(cfg))
	return path
}

func TestBootstrap_WiresServices(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.BaseURL = "https://app.bolttech.net"
	cfg.APIToken = "secret"
	cfg.Database = filepath.Join(t.TempDir(), "bolt.db")
	path := writeConfig(t, cfg)

	app, err := bootstrap(context.Background(), cli.Options{ConfigPath: path})

	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.Sync)
	assert.NotNil(t, app.DryRun)
	assert.Len(t, app.Catalogue.Tables(), len(bolt.Tables))
	assert.Equal(t, path, app.Settings.Path())
	assert.NoError(t, app.Settings.Validate())

	state, err := app.State.Show(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Tables)

	_, err = os.Stat(cfg.Database)
	assert.NoError(t, err)
}

func TestBootstrap_UnknownConfiguredTable(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Database = filepath.Join(t.TempDir(), "bolt.db")
	cfg.Tables = []string{"widgets"}
	path := writeConfig(t, cfg)

	_, err := bootstrap(context.Background(), cli.Options{ConfigPath: path})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownTable)
}

func TestBootstrap_LogsResolvedEndpoints(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	t.Cleanup(func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	})

	cfg := domain.DefaultConfig()
	cfg.BaseURL = "https://app.bolttech.net/"
	cfg.APIToken = "secret"
	cfg.Database = filepath.Join(t.TempDir(), "bolt.db")
	path := writeConfig(t, cfg)

	app, err := bootstrap(context.Background(), cli.Options{ConfigPath: path})
	require.NoError(t, err)
	defer app.Close()

	out := buf.String()
	assert.Contains(t, out, "Using Bolt API at https://app.bolttech.net")
	assert.NotContains(t, out, "https://app.bolttech.net/")
	assert.Contains(t, out, "Using database "+cfg.Database)
	assert.NotContains(t, out, "secret")
}
