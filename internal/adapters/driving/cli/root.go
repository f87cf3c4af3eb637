// Package cli implements the boltsync command line on top of the driving ports.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/stancil-services/boltsync/internal/core/ports/driving"
	"github.com/stancil-services/boltsync/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Global flags.
var (
	cfgFile   string
	verbose   bool
	logFormat string
)

// Services used by the commands. Set by Bootstrap or directly in tests.
var (
	settingsService    driving.SettingsService
	syncOrchestrator   driving.SyncOrchestrator
	dryRunOrchestrator driving.SyncOrchestrator
	stateService       driving.StateService
	catalogue          driving.Catalogue
	closeServices      func() error
)

// Options are the parsed global flags handed to a Bootstrap.
type Options struct {
	// ConfigPath is the --config flag. Empty means the default location.
	ConfigPath string
}

// App bundles the services a Bootstrap builds.
type App struct {
	Settings driving.SettingsService
	Sync     driving.SyncOrchestrator

	// DryRun syncs into a throwaway sink. Optional.
	DryRun driving.SyncOrchestrator

	State     driving.StateService
	Catalogue driving.Catalogue

	// Close releases the resources of the services. Optional.
	Close func() error
}

// Bootstrap builds the services once the global flags are parsed.
type Bootstrap func(ctx context.Context, opts Options) (*App, error)

var bootstrap Bootstrap

// SetBootstrap registers the function that wires the services.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// skipBootstrap marks commands that need no services.
const skipBootstrap = "skip-bootstrap"

var rootCmd = &cobra.Command{
	Use:   "boltsync",
	Short: "Incremental sync of the Bolt by ECI API into SQLite",
	Long: `boltsync pulls every Bolt by ECI table into a local SQLite database.
Snapshot tables page with next_batch tokens and event streams with event
tokens. Progress is checkpointed after every page so an interrupted run
resumes where it stopped.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.boltsync/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console or json)")
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if err := logger.SetFormat(logFormat); err != nil {
		return err
	}

	if bootstrap == nil || cmd.Annotations[skipBootstrap] == "true" {
		return nil
	}

	app, err := bootstrap(contextOf(cmd), Options{ConfigPath: cfgFile})
	if err != nil {
		return err
	}
	settingsService = app.Settings
	syncOrchestrator = app.Sync
	dryRunOrchestrator = app.DryRun
	stateService = app.State
	catalogue = app.Catalogue
	closeServices = app.Close
	return nil
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if closeServices != nil {
		err = errors.Join(err, closeServices())
		closeServices = nil
	}
	return err
}
