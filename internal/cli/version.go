package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"workdays/internal/theme"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			theme.PrintBanner(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "workdays %s (commit=%s, built=%s)\n", Version, CommitSHA, BuildDate)
		},
	}
}
