package cmd

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/iksnae/msgr/internal"
	"github.com/spf13/cobra"
)

var (
	watchDuration time.Duration
	watchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep unread counts fresh",
	Long: `Refresh unread counts on a fixed interval until interrupted or until
--duration has passed. The interval defaults to refresh_interval from the
config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}

			interval := watchInterval
			if interval <= 0 {
				interval = a.cfg.RefreshInterval
			}

			ctx := cmd.Context()
			if watchDuration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, watchDuration)
				defer cancel()
			}

			var ticks atomic.Int64
			r := internal.StartRefresher(ctx, interval, func() {
				a.chats.RefreshUnread()
				n := ticks.Add(1)
				internal.LogDebug("Unread refresh #%d for %d chats", n, len(a.chats.Peers()))
			})
			internal.PrintInfo(cmd.OutOrStdout(), fmt.Sprintf("Watching %d chats every %s", len(a.chats.Peers()), interval))

			<-ctx.Done()
			r.Stop()

			internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Stopped after %d refreshes", ticks.Load()))
			return nil
		})
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDuration, "duration", 0, "Stop after this long (default: until interrupted)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Refresh interval (default: refresh_interval from config)")
	rootCmd.AddCommand(watchCmd)
}
