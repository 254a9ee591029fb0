package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/msgr/internal"
	"github.com/spf13/cobra"
)

var (
	authUsername  string
	authEmail     string
	authPassword  string
	whoamiRefresh bool
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Width(16)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	Long: `Log in to the backend. The session is saved locally and restored on
every later run until you log out.

The password is read from standard input when --password is not given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return submitAuth(cmd, internal.ModeLogin)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		return submitAuth(cmd, internal.ModeRegister)
	},
}

func submitAuth(cmd *cobra.Command, mode internal.FormMode) error {
	password := authPassword
	if password == "" {
		var err error
		if password, err = readLine(cmd.InOrStdin()); err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}
	form := internal.AuthForm{Mode: mode, Username: authUsername, Email: authEmail, Password: password}

	return withApp(func(a *app) error {
		err := internal.ShowProgress(cmd.Context(), "Contacting "+a.cfg.BackendURL, func() error {
			return a.session.Submit(cmd.Context(), form)
		})

		var vErr *internal.ValidationError
		if errors.As(err, &vErr) {
			printFieldErrors(cmd.ErrOrStderr(), vErr)
			return err
		}
		if err != nil {
			return err
		}

		s := a.session.Current()
		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Logged in as %s (%s)", s.Username, s.UserID))
		return nil
	})
}

func printFieldErrors(w io.Writer, vErr *internal.ValidationError) {
	fields := make([]string, 0, len(vErr.Fields))
	for f := range vErr.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		internal.PrintError(w, fmt.Sprintf("%s: %s", f, vErr.Fields[f]))
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			wasLoggedIn := a.session.Current() != nil
			if err := a.session.Logout(); err != nil {
				return err
			}
			if err := a.users.Clear(); err != nil {
				internal.LogWarn("Failed to clear user directory: %v", err)
			}
			if wasLoggedIn {
				internal.PrintSuccess(cmd.OutOrStdout(), "Logged out")
			} else {
				internal.PrintInfo(cmd.OutOrStdout(), "Not logged in")
			}
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}
			if whoamiRefresh {
				a.session.RefreshProfile(cmd.Context())
			}
			printSession(cmd.OutOrStdout(), a.session.Current())
			return nil
		})
	},
}

func printSession(w io.Writer, s *internal.Session) {
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label), valueStyle.Render(value))
		}
	}
	row("User ID", s.UserID)
	row("Username", s.Username)
	row("Email", s.Email)
	row("Avatar", s.AvatarURL)
	if st := s.Settings; st != nil {
		row("Theme", st.Theme)
		row("Last online", st.LastOnline)
		row("Invisible", fmt.Sprint(st.InvisibleMode))
		row("Hide last seen", fmt.Sprint(st.HideLastSeen))
		row("Hide profile", fmt.Sprint(st.HideProfileInfo))
	}
}

var renameCmd = &cobra.Command{
	Use:   "rename <new-username>",
	Short: "Change your username",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			err := a.session.Rename(cmd.Context(), args[0])
			var vErr *internal.ValidationError
			if errors.As(err, &vErr) {
				printFieldErrors(cmd.ErrOrStderr(), vErr)
			}
			if err != nil {
				return err
			}
			internal.PrintSuccess(cmd.OutOrStdout(), "Username changed to "+args[0])
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
		c.Flags().StringVar(&authPassword, "password", "", "Account password (read from stdin when omitted)")
	}
	registerCmd.Flags().StringVar(&authUsername, "username", "", "Username (letters, digits and underscores)")
	whoamiCmd.Flags().BoolVar(&whoamiRefresh, "refresh", false, "Re-read the profile from the backend first")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd, renameCmd)
}
