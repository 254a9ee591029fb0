package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/msgr/internal"
	"github.com/spf13/cobra"
)

var (
	limit int
)

var (
	conversationHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	ownMessageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	peerMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

var openCmd = &cobra.Command{
	Use:   "open <user-id>",
	Short: "Show the conversation with a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		peerID := args[0]
		return withApp(func(a *app) error {
			me, err := a.requireSession()
			if err != nil {
				return err
			}

			var msgs []internal.Message
			err = internal.ShowProgress(cmd.Context(), "Loading messages", func() error {
				var err error
				msgs, err = a.conv.Open(cmd.Context(), peerID)
				return err
			})
			if err := warnTransient(cmd, "messages", err); err != nil {
				return err
			}

			users := a.directory(cmd, false)
			printConversation(cmd.OutOrStdout(), me, peerID, displayName(users, peerID), msgs)
			return nil
		})
	},
}

func printConversation(w io.Writer, me *internal.Session, peerID, peerName string, msgs []internal.Message) {
	fmt.Fprintln(w, conversationHeaderStyle.Render(fmt.Sprintf("Chat with %s", peerName)))

	if limit > 0 && len(msgs) > limit {
		fmt.Fprintln(w, timestampStyle.Render(fmt.Sprintf("... %d earlier messages", len(msgs)-limit)))
		msgs = msgs[len(msgs)-limit:]
	}
	if len(msgs) == 0 {
		internal.PrintInfo(w, "No messages yet")
		return
	}

	for _, m := range msgs {
		author := peerMessageStyle.Render(peerName)
		if m.SenderID == me.UserID {
			author = ownMessageStyle.Render("you")
		}
		stamp := ""
		if ts := m.GetTimestamp(); !ts.IsZero() {
			stamp = " " + timestampStyle.Render(ts.Local().Format("2006-01-02 15:04"))
		}
		fmt.Fprintf(w, "%s%s\n%s\n", author, stamp, messageContentStyle.Render(m.Text))
	}
}

func init() {
	openCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the last N messages")
	rootCmd.AddCommand(openCmd)
}
