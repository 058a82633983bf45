package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"workdays/internal/api"
	"workdays/internal/cmdlog"
	"workdays/internal/holidays"
	"workdays/internal/jobs"
	"workdays/internal/logging"
	"workdays/internal/metrics"
	"workdays/internal/service"
	"workdays/internal/store/holidaydb"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with background holiday refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("serve", func() error {
				cfg, err := loadConfig(cmd)
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

				ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer cancel()

				var db *holidaydb.DB
				var store holidays.Store
				if cfg.Storage.DBPath != "" {
					db, err = holidaydb.Open(cfg.Storage.DBPath)
					if err != nil {
						return err
					}
					defer db.Close()
					store = db
				}

				provider := holidays.NewProvider(newSource(cfg, ""), store)
				if err := provider.Seed(ctx); err != nil {
					logging.Warn("holiday_seed_error", map[string]any{"error": err.Error()})
				}
				loopDone := make(chan struct{})
				go func() {
					defer close(loopDone)
					_ = jobs.RunRefreshLoop(ctx, provider, db, cfg.RefreshInterval())
				}()
				defer func() {
					cancel()
					<-loopDone
				}()

				if srv := metrics.StartServer(cfg.Metrics.Addr); srv != nil {
					logging.Info("metrics_listening", map[string]any{"addr": cfg.Metrics.Addr})
					defer srv.Close()
				}

				ws := &api.Server{
					Service:      service.New(provider, loc, sched),
					Holidays:     provider,
					ServeMetrics: cfg.Metrics.Addr == "",
				}
				return api.Start(ctx, cfg.Server.Addr, ws.Routes(),
					seconds(cfg.Server.ReadHeaderTimeoutSeconds), seconds(cfg.Server.ShutdownTimeoutSeconds))
			})
		},
	}
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

func msDuration(n int) time.Duration { return time.Duration(n) * time.Millisecond }
