package cli

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/stancil-services/boltsync/internal/core/domain"
)

var schemaFormat string

var schemaCmd = &cobra.Command{
	Use:   "schema [table]",
	Short: "Print the destination schema",
	Long: `Prints the declared primary key and typed columns of every table,
or of one table when named.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().StringVar(&schemaFormat, "format", "table", "output format (table or json)")
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	if catalogue == nil {
		return errors.New("catalogue not configured")
	}

	schemas := catalogue.Schema()
	if len(args) > 0 {
		var found []domain.TableSchema
		for _, s := range schemas {
			if s.Table == args[0] {
				found = append(found, s)
			}
		}
		if len(found) == 0 {
			return &domain.UnknownTableError{Name: args[0]}
		}
		schemas = found
	}

	switch schemaFormat {
	case "json":
		return outputSchemaJSON(cmd, schemas)
	case "table":
		outputSchemaTable(cmd, schemas)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table or json)", schemaFormat)
	}
}

type schemaJSON struct {
	Table      string            `json:"table"`
	PrimaryKey []string          `json:"primary_key"`
	Columns    map[string]string `json:"columns"`
}

func outputSchemaJSON(cmd *cobra.Command, schemas []domain.TableSchema) error {
	out := make([]schemaJSON, 0, len(schemas))
	for _, s := range schemas {
		cols := make(map[string]string, len(s.Columns))
		for _, c := range s.Columns {
			cols[c.Name] = string(c.Type)
		}
		out = append(out, schemaJSON{Table: s.Table, PrimaryKey: s.PrimaryKey, Columns: cols})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSchemaTable(cmd *cobra.Command, schemas []domain.TableSchema) {
	st := stylesFor(cmd.OutOrStdout())
	for i, s := range schemas {
		if i > 0 {
			cmd.Println()
		}
		cmd.Println(st.Title.Render(s.Table))
		pk := make(map[string]bool, len(s.PrimaryKey))
		for _, k := range s.PrimaryKey {
			pk[k] = true
		}
		for _, c := range s.Columns {
			marker := "  "
			if pk[c.Name] {
				marker = "* "
			}
			cmd.Printf("  %s%s  %s\n", marker, padRight(c.Name, 40), st.Muted.Render(string(c.Type)))
		}
	}
}
