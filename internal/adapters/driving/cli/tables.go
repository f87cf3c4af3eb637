package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the synchronised tables",
	Long:  `Lists every table in sync order with its endpoint and pagination kind.`,
	Args:  cobra.NoArgs,
	RunE:  runTables,
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}

func runTables(cmd *cobra.Command, _ []string) error {
	if catalogue == nil {
		return errors.New("catalogue not configured")
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Printf("%s  %s  %s\n",
		st.Header.Render(padRight("TABLE", 32)),
		st.Header.Render(padRight("KIND", 24)),
		st.Header.Render("ENDPOINT"))

	for _, t := range catalogue.Tables() {
		cmd.Printf("%s  %s  %s\n",
			padRight(t.Name, 32),
			st.Muted.Render(padRight(t.Kind.String(), 24)),
			t.Path)
	}
	return nil
}
