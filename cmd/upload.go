package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/msgr/internal"
	"github.com/spf13/cobra"
)

var (
	uploadTo string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a file and print its URL",
	Long: `Upload a file to the backend and print the URL it is served from.
With --to the URL is also sent as a message to that user.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer func() { _ = f.Close() }()

		return withApp(func(a *app) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}

			var fileURL string
			name := filepath.Base(args[0])
			err := internal.ShowProgress(cmd.Context(), "Uploading "+name, func() error {
				var err error
				fileURL, err = a.conv.Upload(cmd.Context(), name, f)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), fileURL)

			if uploadTo == "" {
				return nil
			}
			if _, err := a.conv.Send(cmd.Context(), uploadTo, fileURL); err != nil {
				return err
			}
			internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Sent to %s", uploadTo))
			return nil
		})
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadTo, "to", "", "Also send the URL to this user ID")
	rootCmd.AddCommand(uploadCmd)
}
