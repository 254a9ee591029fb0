package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/msgr/internal"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check configuration, local state and backend reachability",
	Long: `Check the health of msgr by verifying:
  • Config resolution (file, environment, flags)
  • Local state database access
  • Backend reachability
  • Saved session

Use --verbose for paths and details.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("msgr health check"))
		fmt.Fprintln(out)

		fmt.Fprintln(out, infoStyle.Render("Step 1: Resolving configuration..."))
		paths, cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("✗ Configuration invalid:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out, successStyle.Render("✓ Configuration loaded"))
		if verbose {
			fmt.Fprintf(out, "   Config file: %s (present: %v)\n", paths.ConfigFile, paths.ConfigExists())
			fmt.Fprintf(out, "   Backend: %s\n", cfg.BackendURL)
			fmt.Fprintf(out, "   Timeout: %s, refresh interval: %s\n", cfg.Timeout, cfg.RefreshInterval)
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, infoStyle.Render("Step 2: Opening local state..."))
		store, err := internal.OpenStorage(paths.StateDB)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("✗ Cannot open state database:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		defer func() { _ = store.Close() }()
		keys, err := store.Keys()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("✗ Cannot read state database:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ State database readable (%d records)", len(keys))))
		if verbose {
			fmt.Fprintf(out, "   Database: %s\n", paths.StateDB)
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, infoStyle.Render("Step 3: Contacting backend..."))
		api := internal.NewAPIClient(cfg.BackendURL, cfg.Timeout)
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		backendErr := api.Reachable(ctx)
		if backendErr != nil {
			fmt.Fprintln(out, errorStyle.Render("✗ Backend not reachable:"), backendErr)
		} else {
			fmt.Fprintln(out, successStyle.Render("✓ Backend reachable"))
		}
		if verbose {
			fmt.Fprintf(out, "   API: %s\n", api.BaseURL())
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, infoStyle.Render("Step 4: Checking saved session..."))
		session := internal.NewSessionManager(api, store).Restore()
		if session != nil {
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ Logged in as %s", session.Username)))
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠ Not logged in"))
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, sectionStyle.Render("Summary"))
		if backendErr != nil {
			fmt.Fprintln(out, errorStyle.Render("✗ Health check failed"))
			return fmt.Errorf("health check failed: %w", backendErr)
		}
		fmt.Fprintln(out, successStyle.Render("✓ Health check passed"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
