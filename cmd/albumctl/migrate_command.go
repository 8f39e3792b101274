package main

import (
	"fmt"

	"albummai/internal/config"
	"albummai/internal/infra/db"
	"albummai/internal/logging"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".env")
			if err != nil {
				return err
			}
			if dsn == "" {
				dsn = cfg.DSN()
			}

			log, err := logging.New(cfg.Log)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() {
				_ = log.Sync()
			}()

			gdb, err := db.Connect(dsn)
			if err != nil {
				return err
			}
			if sqlDB, err := gdb.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := db.Migrate(gdb, log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrated")
			return nil
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "Postgres DSN (defaults to DATABASE_URL / POSTGRES_*)")
	return cmd
}
