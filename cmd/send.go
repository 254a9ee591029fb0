package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/msgr/internal"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <user-id> <text>...",
	Short: "Send a message",
	Long: `Send a message to a user. The conversation is added to your chat list
the first time you write to someone.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		peerID, text := args[0], strings.Join(args[1:], " ")
		return withApp(func(a *app) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}
			msg, err := a.conv.Send(cmd.Context(), peerID, text)
			if err != nil {
				return err
			}
			if msg == nil {
				internal.PrintWarning(cmd.ErrOrStderr(), "Nothing to send")
				return nil
			}
			internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Sent to %s", peerID))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
