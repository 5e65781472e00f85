package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlipski/usagewidget/internal/appupdate"
	"github.com/mlipski/usagewidget/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version and check for a newer release.",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "usagewidget %s\n", version.Version)

			res, err := appupdate.Check(cmd.Context(), appupdate.CheckOptions{
				CurrentVersion: version.Version,
			})
			if err != nil || !res.UpdateAvailable {
				return
			}
			fmt.Fprintf(out, "update available: %s → %s\n", res.CurrentVersion, res.LatestVersion)
			fmt.Fprintln(out, "upgrade with: go install github.com/mlipski/usagewidget/cmd/usagewidget@latest")
		},
	}
}
