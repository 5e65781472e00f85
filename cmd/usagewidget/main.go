package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mlipski/usagewidget/internal/activity"
	"github.com/mlipski/usagewidget/internal/core"
	"github.com/mlipski/usagewidget/internal/credentials"
	"github.com/mlipski/usagewidget/internal/quota"
)

func main() {
	logger := newLogger()

	root := &cobra.Command{
		Use:   "usagewidget",
		Short: "usagewidget reports Claude quota utilization alongside local token activity.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, newService(logger), false)
		},
	}

	root.AddCommand(
		newStatusCommand(logger),
		newWatchCommand(logger),
		newHistoryCommand(),
		newVersionCommand(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if os.Getenv("USAGEWIDGET_DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func newService(logger zerolog.Logger) *core.Service {
	cache := credentials.NewSessionCache(credentials.NewResolver())
	reader := activity.NewReader("", logger)
	return core.NewService(cache, quota.NewClient(), reader, logger)
}
