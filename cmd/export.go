package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iksnae/msgr/internal"
	"github.com/iksnae/msgr/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <user-id>",
	Short: "Export a conversation to file",
	Long: `Export the conversation with a user to jsonl, md, yaml or json.

The file is written to --out (default: current directory). Use --out - to
write to standard output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}
		peerID := args[0]

		return withApp(func(a *app) error {
			me, err := a.requireSession()
			if err != nil {
				return err
			}

			msgs, err := a.conv.Open(cmd.Context(), peerID)
			if err != nil {
				return fmt.Errorf("failed to load conversation: %w", err)
			}
			peer, ok := internal.UserByID(a.directory(cmd, false), peerID)
			if !ok {
				peer = internal.User{ID: peerID}
			}
			transcript := internal.NewTranscript(me, peer, msgs, time.Now())

			if outputDir == "-" {
				return exporter.Export(transcript, cmd.OutOrStdout())
			}

			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			path := filepath.Join(outputDir, export.FileName(exporter, transcript))
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := exporter.Export(transcript, f); err != nil {
				_ = f.Close()
				return fmt.Errorf("failed to export: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}

			internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Exported %d messages to %s", len(msgs), path))
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&format, "format", "f", "md", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", ".", "Output directory, or - for stdout")
	rootCmd.AddCommand(exportCmd)
}
