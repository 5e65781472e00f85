package main

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mlipski/usagewidget/internal/activity"
	"github.com/mlipski/usagewidget/internal/core"
	"github.com/mlipski/usagewidget/internal/daemon"
	"github.com/mlipski/usagewidget/internal/history"
	"github.com/mlipski/usagewidget/internal/settings"
)

const historyRetention = 30 * 24 * time.Hour

func newWatchCommand(logger zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Refresh continuously, printing one JSON payload per line for the widget frontend.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := settings.Load()

			opts := daemon.Options{
				Interval:  time.Duration(s.RefreshInterval) * time.Second,
				WatchPath: activity.DefaultPath(),
				Logger:    logger,
			}

			store, err := history.OpenStore(history.DefaultPath())
			if err != nil {
				// History is a convenience; the widget keeps refreshing
				// without it.
				logger.Warn().Err(err).Msg("history store unavailable")
			} else {
				defer store.Close()
				if err := store.Prune(cmd.Context(), historyRetention); err != nil {
					logger.Warn().Err(err).Msg("pruning history")
				}
				opts.Recorder = store
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			opts.OnUpdate = func(data core.WidgetData) {
				if err := enc.Encode(data); err != nil {
					logger.Warn().Err(err).Msg("writing update")
				}
			}

			rt := daemon.NewRuntime(newService(logger), opts)
			return rt.Run(cmd.Context())
		},
	}
}
