package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"workdays/internal/cmdlog"
	"workdays/internal/holidays"
	"workdays/internal/service"
)

func newComputeCmd() *cobra.Command {
	var days, hours, date, file string

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute a working date once and print it in UTC",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("compute", func() error {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				req, err := service.ParseRequest(days, hours, date)
				if err != nil {
					return err
				}
				loc, err := cfg.Location()
				if err != nil {
					return err
				}
				sched, err := cfg.Schedule()
				if err != nil {
					return err
				}
				provider := holidays.NewProvider(newSource(cfg, file), nil)
				t, err := service.New(provider, loc, sched).Compute(cmd.Context(), req)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), service.FormatUTC(t))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&days, "days", "", "working days to add")
	cmd.Flags().StringVar(&hours, "hours", "", "working hours to add")
	cmd.Flags().StringVar(&date, "date", "", "start instant, ISO 8601 UTC with Z suffix (default now)")
	cmd.Flags().StringVar(&file, "holidays-file", "", "read holidays from a local JSON file")
	return cmd
}
