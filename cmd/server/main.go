package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"greenhouse/config"
	"greenhouse/database"
	"greenhouse/pkg/logging"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "greenhouse",
		Short:         "Greenhouse crop care and ventilation dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return serve(cmd.Context()) },
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API and background jobs",
			RunE:  func(cmd *cobra.Command, _ []string) error { return serve(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create tables, seed zones and backfill next-due dates",
			RunE:  func(*cobra.Command, []string) error { return migrate() },
		},
		nextCmd(),
		classifyCmd(),
	)
	return root
}

func boot() (config.AppConfig, *zap.Logger, error) {
	cfg := config.Load()
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return cfg, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, log, nil
}

func migrate() error {
	cfg, log, err := boot()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck
	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}
	log.Info("migrated", zap.String("db", cfg.DBPath))
	return nil
}
