package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iksnae/msgr/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	storagePath string
	backendURL  string
	configPath  string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "msgr",
	Short: "Command-line client for the messenger backend",
	Long: `A command-line client for the messenger REST backend.

msgr keeps you logged in between runs, remembers which conversations you
have open and talks to the backend for everything else.

Quick Start:
  msgr register --username alice --email alice@example.com
  msgr login --email alice@example.com
  msgr search bo                 # Find people
  msgr send <user-id> hello      # Start a conversation
  msgr chats                     # Conversations on this device
  msgr open <user-id>            # Read a conversation`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Custom state location (path to database file or directory)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "Backend URL (overrides MSGR_BACKEND_URL and the config file)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: per-user msgr directory)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
