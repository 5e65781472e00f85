package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlipski/usagewidget/internal/history"
)

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recently recorded refreshes, newest first.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := history.OpenStore(history.DefaultPath())
			if err != nil {
				return err
			}
			defer store.Close()

			snaps, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(snaps) == 0 {
				fmt.Fprintln(out, "no refreshes recorded yet; run `usagewidget watch` first")
				return nil
			}

			for _, snap := range snaps {
				fmt.Fprintf(out, "%s  5h %s  7d %s  tokens %d/%d  messages %d/%d",
					snap.TakenAt.Local().Format(time.DateTime),
					formatPct(snap.FiveHour), formatPct(snap.SevenDay),
					snap.TokenStats.TodayTokens, snap.TokenStats.WeekTokens,
					snap.TokenStats.TodayMessages, snap.TokenStats.WeekMessages,
				)
				if snap.Error != "" {
					fmt.Fprintf(out, "  error: %s", snap.Error)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of refreshes to show")
	return cmd
}

func formatPct(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.0f%%", *v*100)
}
