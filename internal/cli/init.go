package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"workdays/internal/cmdlog"
	"workdays/internal/config"
	"workdays/internal/theme"
)

func newInitCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("init", func() error {
				if err := config.Save(path, config.Default()); err != nil {
					return err
				}
				abs, _ := filepath.Abs(path)
				theme.PrintBanner(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), "Config written to:", abs)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&path, "path", config.DefaultPath, "path to write config")
	return cmd
}
