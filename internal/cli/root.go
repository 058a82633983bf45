package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"workdays/internal/config"
	"workdays/internal/holidays"
	"workdays/internal/logging"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "workdays",
		Short:         "Working-date calculator for business hours in Colombia",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetOutput(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().String("config", config.DefaultPath, "config file path")

	root.AddCommand(newServeCmd())
	root.AddCommand(newComputeCmd())
	root.AddCommand(newHolidaysCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads --config, validates it and applies the log level.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if err := logging.SetLevel(cfg.Logging.Level); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newSource picks the holiday source. A file, from the flag or config, wins over the URL.
func newSource(cfg config.Config, file string) holidays.Source {
	if file == "" {
		file = cfg.Holidays.File
	}
	if file != "" {
		return holidays.FileSource{Path: file}
	}
	h := cfg.Holidays
	return holidays.NewHTTPSource(h.URL, holidays.HTTPOptions{
		Timeout:     msDuration(h.TimeoutMs),
		MaxAttempts: h.MaxAttempts,
		BaseBackoff: msDuration(h.BaseBackoffMs),
		RPS:         h.RPS,
		Burst:       h.Burst,
	})
}
