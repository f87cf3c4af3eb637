package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Flags for config init.
var (
	configInitBaseURL string
	configInitToken   string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialise the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with the token masked",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Store the API base URL and token",
	Long: `Stores the Bolt API base URL and token in the config file.
Values not given as flags are prompted for. The token is read without echo.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().StringVar(&configInitBaseURL, "base-url", "", "API base URL, e.g. https://app.bolttech.net")
	configInitCmd.Flags().StringVar(&configInitToken, "token", "", "API token (for non-interactive mode)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cfg, err := settingsService.Redacted()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Title.Render(settingsService.Path()))
	rows := [][2]string{
		{"base_url", cfg.BaseURL},
		{"api_token", cfg.APIToken},
		{"database", cfg.Database},
		{"rate_limit_delay", cfg.RateLimitDelay.String()},
		{"retry_delay", cfg.RetryDelay.String()},
		{"max_retries", fmt.Sprint(cfg.MaxRetries)},
		{"request_timeout", cfg.RequestTimeout.String()},
		{"max_event_pages", fmt.Sprint(cfg.MaxEventPages)},
		{"tables", strings.Join(cfg.Tables, ",")},
	}
	for _, r := range rows {
		value := r[1]
		if value == "" {
			value = st.Muted.Render("(unset)")
		}
		cmd.Printf("  %s %s\n", padRight(r[0], 18), value)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	baseURL := configInitBaseURL
	if baseURL == "" {
		cmd.Print("Base URL: ")
		baseURL = readLine(reader)
	}

	token := configInitToken
	if token == "" {
		cmd.Print("API token: ")
		token = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
	}

	if err := settingsService.SetCredentials(baseURL, token); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	cmd.Printf("Configuration saved to %s\n", settingsService.Path())
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// readPassword reads without echo when in is a terminal.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}
