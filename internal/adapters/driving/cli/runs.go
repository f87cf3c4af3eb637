package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent sync runs",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "maximum number of runs")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if stateService == nil {
		return errors.New("state service not configured")
	}

	runs, err := stateService.Runs(context.Background(), runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Printf("%s  %s  %s  %s  %s\n",
		st.Header.Render(padRight("RUN", 36)),
		st.Header.Render(padRight("STARTED", 20)),
		st.Header.Render(padRight("DURATION", 10)),
		st.Header.Render(padRight("RECORDS", 8)),
		st.Header.Render("FAILED"))

	for i := range runs {
		run := &runs[i]
		failed := run.Failed()
		failedText := st.Success.Render("0")
		if len(failed) > 0 {
			failedText = st.Error.Render(fmt.Sprintf("%d %v", len(failed), failed))
		}
		cmd.Printf("%s  %s  %s  %s  %s\n",
			padRight(run.ID, 36),
			padRight(run.StartedAt.Local().Format(time.DateTime), 20),
			padRight(run.EndedAt.Sub(run.StartedAt).Round(time.Second).String(), 10),
			padRight(fmt.Sprint(run.Records()), 8),
			failedText)
	}
	return nil
}
