package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/hotel-rates/internal/common"
	repo "github.com/joseph-ayodele/hotel-rates/internal/repository"
)

func newDBHealthCmd(root *rootOptions) *cobra.Command {
	var (
		migrate bool
		driver  string
	)
	cmd := &cobra.Command{
		Use:   "dbhealth",
		Short: "Check the configured sink is reachable",
		Args:  exactArgs(0, "no arguments"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, logger, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}
			if driver != "" {
				cfg.Sink.Driver = driver
			}
			if err := cfg.ValidateSink(); err != nil {
				return err
			}

			if migrate {
				switch cfg.Sink.Driver {
				case common.SinkPostgres, common.SinkSQLite:
				default:
					return usageError("--migrate needs the postgres or sqlite driver")
				}
			}

			s, closeSink, err := newSink(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeSink()

			if err := s.Ping(ctx); err != nil {
				logger.Error("dbhealth.fail", "driver", cfg.Sink.Driver, "error", err)
				return common.PersistenceError("health check failed", err)
			}
			if migrate {
				sqlSink, ok := s.(*repo.SQLSink)
				if !ok {
					return usageError("--migrate needs the postgres or sqlite driver")
				}
				if err := sqlSink.Migrate(ctx, cfg.Sink.Table); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "table %s is up to date\n", cfg.Sink.Table)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", cfg.Sink.Driver)
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Create or extend the rates table (postgres, sqlite)")
	cmd.Flags().StringVar(&driver, "sink", "", "Sink driver to check (default SINK_DRIVER)")
	return cmd
}
