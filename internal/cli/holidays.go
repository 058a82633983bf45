package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"workdays/internal/cmdlog"
	"workdays/internal/holidays"
	"workdays/internal/model"
	"workdays/internal/service"
)

func newHolidaysCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Fetch the holiday list and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("holidays", func() error {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				provider := holidays.NewProvider(newSource(cfg, file), nil)
				if err := provider.Refresh(cmd.Context()); err != nil {
					return err
				}
				snap := provider.Current()
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(model.HolidaysResponse{
					Source:    snap.Source,
					FetchedAt: service.FormatUTC(snap.FetchedAt),
					Count:     snap.Holidays.Len(),
					Dates:     snap.Holidays.Strings(),
				})
			})
		},
	}

	cmd.Flags().StringVar(&file, "holidays-file", "", "read holidays from a local JSON file")
	return cmd
}
