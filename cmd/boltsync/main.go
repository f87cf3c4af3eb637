// Command boltsync synchronises the Bolt by ECI API into a local SQLite database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/stancil-services/boltsync/internal/adapters/driven/config/file"
	"github.com/stancil-services/boltsync/internal/adapters/driven/storage/memory"
	"github.com/stancil-services/boltsync/internal/adapters/driven/storage/sqlite"
	"github.com/stancil-services/boltsync/internal/adapters/driving/cli"
	"github.com/stancil-services/boltsync/internal/connectors/bolt"
	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/core/services"
	"github.com/stancil-services/boltsync/internal/logger"
)

func main() {
	cli.SetBootstrap(bootstrap)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap wires the adapters and services for one command.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.App, error) {
	configStore, err := file.NewConfigStore(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := configStore.Load()
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded config from %s", configStore.Path())

	store, err := sqlite.NewStore(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := store.Provision(ctx, bolt.Schema()); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("provision database: %w", err)
	}
	logger.Debug("Using database %s", store.Path())

	client := bolt.NewClient(bolt.Options{
		BaseURL:    cfg.BaseURL,
		Token:      cfg.APIToken,
		Timeout:    cfg.RequestTimeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	})
	logger.Debug("Using Bolt API at %s", client.BaseURL())
	upstream := bolt.NewUpstream(client)
	normaliser := bolt.NewNormaliser()
	pacer := bolt.NewRateLimiter(cfg.RateLimitDelay)

	tables, err := bolt.Tables.Filter(cfg.Tables)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("config tables: %w", err)
	}

	syncOrchestrator := services.NewSyncOrchestrator(
		tables, upstream, normaliser, store, store, store, pacer, cfg.MaxEventPages)

	// Dry runs resume from the stored cursors but write to memory only.
	dryRun, err := newDryRun(ctx, store, tables)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	dryRunOrchestrator := services.NewSyncOrchestrator(
		tables, upstream, normaliser, dryRun, dryRun, nil, pacer, cfg.MaxEventPages)

	return &cli.App{
		Settings:  services.NewSettingsService(configStore),
		Sync:      syncOrchestrator,
		DryRun:    dryRunOrchestrator,
		State:     services.NewStateService(bolt.Tables, store, store),
		Catalogue: bolt.Catalogue{},
		Close:     store.Close,
	}, nil
}

func newDryRun(ctx context.Context, store *sqlite.Store, tables domain.Registry) (*memory.Sink, error) {
	state, err := store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	sink := memory.NewSink(tables)
	if err := sink.SaveState(ctx, state); err != nil {
		return nil, err
	}
	return sink, nil
}
