package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/iksnae/msgr/internal"
	"github.com/spf13/cobra"
)

var (
	searchSelect string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find users by name",
	Long: `Find users whose username contains the query, ignoring case.

Pass --select with one of the listed IDs to add that user to your chats.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			users, err := a.conv.Search(cmd.Context(), args[0])
			if err := warnTransient(cmd, "users", err); err != nil {
				return err
			}
			if len(users) == 0 {
				internal.PrintInfo(out, "No users found")
			} else {
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				for _, u := range users {
					fmt.Fprintf(w, "%s\t%s\t%s\n", titleStyle.Render(u.Username), idStyle.Render(u.ID), u.LastOnline)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}

			if searchSelect == "" {
				return nil
			}
			u, ok := internal.UserByID(users, searchSelect)
			if !ok {
				return fmt.Errorf("%s is not among the results", searchSelect)
			}
			if err := a.conv.SelectFromSearch(u.ID); err != nil {
				return err
			}
			internal.PrintSuccess(out, fmt.Sprintf("Added %s to chats", u.Username))
			return nil
		})
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchSelect, "select", "", "Add the user with this ID to your chats")
	rootCmd.AddCommand(searchCmd)
}
