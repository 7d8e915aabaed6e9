// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/vacago/vacago/internal/store"
)

// migrateConfig holds configuration for the migrate subcommand.
type migrateConfig struct {
	rollback bool
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cfg := &migrateConfig{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending schema migrations against the PostgreSQL database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.rollback, "rollback", false, "roll back all migrations (destructive)")

	return cmd
}

func runMigrate(cmd *cobra.Command, cfg *migrateConfig) error {
	appCfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	migrator, err := store.NewMigrator(appCfg.DatabaseURL)
	if err != nil {
		return oops.Code("MIGRATE_CMD_FAILED").With("operation", "create migrator").Wrap(err)
	}
	defer func() { _ = migrator.Close() }()

	if cfg.rollback {
		cmd.Println("Rolling back migrations...")
		if err := migrator.Down(); err != nil {
			return oops.Code("MIGRATE_CMD_FAILED").With("operation", "roll back migrations").Wrap(err)
		}
		cmd.Println("Rollback completed successfully")
		return nil
	}

	cmd.Println("Running migrations...")
	if err := migrator.Up(); err != nil {
		return oops.Code("MIGRATE_CMD_FAILED").With("operation", "run migrations").Wrap(err)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
