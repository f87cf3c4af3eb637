package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/core/ports/driving"
	"github.com/stancil-services/boltsync/internal/metrics"
)

// Flags for sync.
var (
	syncTables      []string
	syncDryRun      bool
	syncMetricsFile string
)

// progressInterval is how often sync progress is polled.
var progressInterval = 500 * time.Millisecond

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise tables from the Bolt API",
	Long: `Runs one sync over every table, or over the tables named with --table.
Each table resumes from its checkpoint. A table that fails keeps its last
good cursor and is retried on the next run while the other tables continue.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringSliceVarP(&syncTables, "table", "t", nil, "tables to sync (repeatable, default all)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "fetch and normalise without writing to the database")
	syncCmd.Flags().StringVar(&syncMetricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	orchestrator := syncOrchestrator
	if syncDryRun {
		orchestrator = dryRunOrchestrator
	}
	if orchestrator == nil {
		return errors.New("sync service not configured")
	}

	if settingsService != nil {
		if err := settingsService.Validate(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(syncTables) > 0 {
		cmd.Printf("Synchronising %s...\n", strings.Join(syncTables, ", "))
	} else {
		cmd.Println("Synchronising all tables...")
	}
	if syncDryRun {
		cmd.Println("Dry run: nothing will be written.")
	}

	run, err := syncWithProgress(ctx, cmd, orchestrator, syncTables)
	if run != nil {
		printRun(cmd, run)
	}

	if syncMetricsFile != "" {
		if merr := metrics.WriteTextfile(syncMetricsFile); merr != nil {
			err = errors.Join(err, fmt.Errorf("write metrics: %w", merr))
		}
	}

	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	if run == nil {
		return nil
	}
	if failed := run.Failed(); len(failed) > 0 {
		return fmt.Errorf("sync finished with failed tables: %s", strings.Join(failed, ", "))
	}
	return nil
}

// syncWithProgress runs sync while displaying progress updates.
func syncWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	orch driving.SyncOrchestrator,
	tables []string,
) (*domain.SyncRun, error) {
	type result struct {
		run *domain.SyncRun
		err error
	}
	done := make(chan result, 1)
	go func() {
		run, err := orch.SyncTables(ctx, tables)
		done <- result{run: run, err: err}
	}()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	lastTable := ""
	lastCount := 0
	for {
		select {
		case res := <-done:
			if lastCount > 0 {
				cmd.Println()
			}
			return res.run, res.err
		case <-ticker.C:
			// Best effort.
			status, err := orch.Status(ctx)
			if err != nil || status == nil || !status.Running {
				continue
			}
			if status.Table != lastTable || status.RecordsProcessed > lastCount {
				cmd.Printf("\rProcessing %s... %d records", status.Table, status.RecordsProcessed)
				lastTable = status.Table
				lastCount = status.RecordsProcessed
			}
		}
	}
}

func printRun(cmd *cobra.Command, run *domain.SyncRun) {
	st := stylesFor(cmd.OutOrStdout())

	cmd.Println()
	cmd.Println(st.Title.Render(fmt.Sprintf("Run %s", run.ID)))
	cmd.Printf("%s  %s  %s  %s  %s\n",
		st.Header.Render(padRight("TABLE", 32)),
		st.Header.Render(padRight("OUTCOME", 12)),
		st.Header.Render(padRight("RECORDS", 8)),
		st.Header.Render(padRight("DROPPED", 8)),
		st.Header.Render("PAGES"))

	for _, t := range run.Tables {
		style := st.outcome(t.Outcome.Failed(), t.Outcome == domain.OutcomeStalled)
		cmd.Printf("%s  %s  %s  %s  %d\n",
			padRight(t.Table, 32),
			style.Render(padRight(string(t.Outcome), 12)),
			padRight(fmt.Sprint(t.Records), 8),
			padRight(fmt.Sprint(t.Dropped), 8),
			t.Pages)
		if t.Error != "" {
			cmd.Println(st.Muted.Render("    " + t.Error))
		}
	}

	elapsed := run.EndedAt.Sub(run.StartedAt).Round(time.Millisecond)
	cmd.Printf("\n%d records, %d of %d tables completed in %s\n",
		run.Records(), len(run.Completed()), len(run.Tables), elapsed)
}

// contextOf returns the command context, or Background outside Execute.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
