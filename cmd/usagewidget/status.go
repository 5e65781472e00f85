package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mlipski/usagewidget/internal/core"
)

func newStatusCommand(logger zerolog.Logger) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Fetch quota windows and local stats once and print them.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, newService(logger), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw widget payload")
	return cmd
}

func runStatus(cmd *cobra.Command, svc *core.Service, asJSON bool) error {
	data := svc.GetUsage(cmd.Context())

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}

	out := cmd.OutOrStdout()
	printWindow(out, "5h", data.FiveHour)
	printWindow(out, "7d", data.SevenDay)
	printWindow(out, "7d sonnet", data.SevenDaySonnet)
	printWindow(out, "7d opus", data.SevenDayOpus)

	fmt.Fprintf(out, "tokens    today %d · week %d\n", data.TokenStats.TodayTokens, data.TokenStats.WeekTokens)
	fmt.Fprintf(out, "messages  today %d · week %d\n", data.TokenStats.TodayMessages, data.TokenStats.WeekMessages)

	if data.Error != "" {
		fmt.Fprintf(out, "warning: %s\n", data.Error)
	}
	return nil
}

func printWindow(out io.Writer, label string, m *core.UsageMetric) {
	if m == nil {
		fmt.Fprintf(out, "%-10s—\n", label)
		return
	}
	fmt.Fprintf(out, "%-10s%.0f%% (resets %s)\n", label, m.Percent*100, m.ResetsAt)
}
