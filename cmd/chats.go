package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/msgr/internal"
	"github.com/spf13/cobra"
)

var (
	chatsRefresh bool
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "List conversations on this device",
	Long: `List the conversations this device has taken part in, most recently
started first. Conversations are added when you send a message or pick
someone from search.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			peers := a.chats.Peers()
			if len(peers) == 0 {
				internal.PrintInfo(out, "No conversations yet. Use 'msgr search' to find someone.")
				return nil
			}

			users := a.directory(cmd, chatsRefresh)
			unread := a.chats.Unread()

			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Conversations (%s)", countStyle.Render(fmt.Sprint(len(peers))))))
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for i, peer := range peers {
				badge := ""
				if n := unread[peer]; n > 0 {
					badge = countStyle.Render(fmt.Sprintf("(%d)", n))
				}
				fmt.Fprintf(w, "%d.\t%s\t%s\t%s\n", i+1, titleStyle.Render(displayName(users, peer)), idStyle.Render(peer), badge)
			}
			return w.Flush()
		})
	},
}

func init() {
	chatsCmd.Flags().BoolVar(&chatsRefresh, "refresh", false, "Re-fetch user names instead of using the cache")
	rootCmd.AddCommand(chatsCmd)
}
