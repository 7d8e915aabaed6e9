// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vacago/vacago/internal/config"
	"github.com/vacago/vacago/internal/logging"
)

// NewRootCmd creates the root command for the vacago CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vacago",
		Short: "Vacago - vacation listing backend",
		Long: `Vacago is a vacation listing backend with user accounts,
token-based authentication, and a country/vacation catalog with likes.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			format, _ := cmd.Flags().GetString("log-format")
			logging.SetDefault(logging.Options{
				Version: version,
				Format:  format,
				Level:   slog.LevelInfo,
			})
		},
	}

	// Global flags shared by all subcommands. Dashes in flag names map to
	// underscores in config keys.
	cmd.PersistentFlags().String("config", "", "config file path")
	cmd.PersistentFlags().String("database-url", "", "PostgreSQL connection URL")
	cmd.PersistentFlags().String("auth-secret", "", "token signing secret")
	cmd.PersistentFlags().Int("session-ttl-hours", 0, "session token lifetime in hours")
	cmd.PersistentFlags().String("log-format", "json", "log output format (json or text)")

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}

// loadConfig resolves the layered configuration for a subcommand
// invocation: defaults, then the optional config file, then flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(path, cmd.Flags())
}
