package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/stancil-services/boltsync/internal/core/domain"
)

var stateResetAll bool

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect and edit sync checkpoints",
	Long: `The sync state holds the pagination cursor of every table. It is
checkpointed after every page and is where the next run resumes.`,
}

var stateShowCmd = &cobra.Command{
	Use:   "show [table]",
	Short: "Show the cursor of every table, or of one table",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStateShow,
}

var stateResetCmd = &cobra.Command{
	Use:   "reset [table]",
	Short: "Forget the cursor of a table so it restarts from the beginning",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStateReset,
}

var stateImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the sync state with a state document (- reads stdin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runStateImport,
}

var stateExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the sync state as JSON",
	Args:  cobra.NoArgs,
	RunE:  runStateExport,
}

func init() {
	stateResetCmd.Flags().BoolVar(&stateResetAll, "all", false, "reset every table")

	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateResetCmd)
	stateCmd.AddCommand(stateImportCmd)
	stateCmd.AddCommand(stateExportCmd)
	rootCmd.AddCommand(stateCmd)
}

func runStateShow(cmd *cobra.Command, args []string) error {
	if stateService == nil {
		return errors.New("state service not configured")
	}

	state, err := stateService.Show(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	names := state.TableNames()
	if len(args) > 0 {
		if _, ok := state.Lookup(args[0]); !ok {
			cmd.Printf("No state for %s.\n", args[0])
			return nil
		}
		names = []string{args[0]}
	}
	if len(names) == 0 {
		cmd.Println("No state recorded. The next sync starts every table from the beginning.")
		return nil
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Printf("%s  %s  %s  %s\n",
		st.Header.Render(padRight("TABLE", 32)),
		st.Header.Render(padRight("LAST SYNC", 20)),
		st.Header.Render(padRight("RECORDS", 8)),
		st.Header.Render("CURSOR"))

	for _, name := range names {
		ts, _ := state.Lookup(name)
		last := "-"
		if !ts.LastSync.IsZero() {
			last = ts.LastSync.Local().Format(time.DateTime)
		}
		cmd.Printf("%s  %s  %s  %s\n",
			padRight(name, 32),
			padRight(last, 20),
			padRight(fmt.Sprint(ts.TotalRecords), 8),
			st.Muted.Render(describeCursor(ts)))
		if ts.SyncError != "" {
			cmd.Println(st.Error.Render("    error: " + ts.SyncError))
		}
	}
	return nil
}

// describeCursor says which token a table resumes from without printing it.
func describeCursor(ts *domain.TableState) string {
	switch {
	case ts.EventToken != "":
		return "event token"
	case ts.NextBatch != "":
		return "next batch"
	case ts.RefreshToken != "":
		return "refresh token"
	default:
		return "none"
	}
}

func runStateReset(cmd *cobra.Command, args []string) error {
	if stateService == nil {
		return errors.New("state service not configured")
	}

	ctx := context.Background()
	switch {
	case stateResetAll && len(args) > 0:
		return errors.New("pass either a table or --all, not both")
	case stateResetAll:
		if err := stateService.ResetAll(ctx); err != nil {
			return fmt.Errorf("failed to reset state: %w", err)
		}
		cmd.Println("State reset for all tables.")
	case len(args) == 1:
		if err := stateService.Reset(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to reset state: %w", err)
		}
		cmd.Printf("State reset for %s.\n", args[0])
	default:
		return errors.New("name a table or pass --all")
	}
	return nil
}

func runStateImport(cmd *cobra.Command, args []string) error {
	if stateService == nil {
		return errors.New("state service not configured")
	}

	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read state: %w", err)
	}

	if err := stateService.Import(context.Background(), data); err != nil {
		return fmt.Errorf("failed to import state: %w", err)
	}
	cmd.Println("State imported.")
	return nil
}

func runStateExport(cmd *cobra.Command, _ []string) error {
	if stateService == nil {
		return errors.New("state service not configured")
	}

	state, err := stateService.Show(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
