package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/iksnae/msgr/internal"
	"github.com/spf13/cobra"
)

var (
	favType     string
	favText     string
	favFileURL  string
	favVoiceURL string
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Saved messages and files",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved items, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}
			favs, err := a.conv.LoadFavorites(cmd.Context())
			if err := warnTransient(cmd, "favorites", err); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(favs) == 0 {
				internal.PrintInfo(out, "No favorites yet")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, f := range favs {
				body := f.Text
				if body == "" {
					body = f.FileURL
				}
				if body == "" {
					body = f.VoiceURL
				}
				saved := ""
				if ts := f.GetTimestamp(); !ts.IsZero() {
					saved = ts.Local().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", idStyle.Render(f.Type), body, saved)
			}
			return w.Flush()
		})
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save text or a file URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		if favText == "" && favFileURL == "" && favVoiceURL == "" {
			return fmt.Errorf("one of --text, --file-url or --voice-url is required")
		}
		fav := internal.FavoriteInput{Type: favType, Text: favText, FileURL: favFileURL, VoiceURL: favVoiceURL}
		if fav.Type == "" {
			switch {
			case favFileURL != "":
				fav.Type = "file"
			case favVoiceURL != "":
				fav.Type = "voice"
			}
		}

		return withApp(func(a *app) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}
			if err := a.conv.AddFavorite(cmd.Context(), fav); err != nil {
				return err
			}
			internal.PrintSuccess(cmd.OutOrStdout(), "Saved to favorites")
			return nil
		})
	},
}

func init() {
	favoritesAddCmd.Flags().StringVar(&favType, "type", "", "Item type (default: text, or file/voice from the URL flag)")
	favoritesAddCmd.Flags().StringVar(&favText, "text", "", "Text to save")
	favoritesAddCmd.Flags().StringVar(&favFileURL, "file-url", "", "URL of an uploaded file")
	favoritesAddCmd.Flags().StringVar(&favVoiceURL, "voice-url", "", "URL of an uploaded voice note")

	favoritesCmd.AddCommand(favoritesListCmd, favoritesAddCmd)
	rootCmd.AddCommand(favoritesCmd)
}
