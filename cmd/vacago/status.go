// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vacago/vacago/internal/store"
)

// Default timeout for the status probe.
const defaultStatusTimeout = 5 * time.Second

// BackendStatus holds database health information.
type BackendStatus struct {
	Reachable        bool   `json:"reachable"`
	MigrationVersion uint   `json:"migration_version"`
	Dirty            bool   `json:"dirty"`
	Error            string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status subcommand.
type statusConfig struct {
	jsonOutput bool
	timeout    time.Duration
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database health and migration state",
		Long:  `Ping the database and report the current schema migration version.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultStatusTimeout, "timeout for the database probe")

	return cmd
}

func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	appCfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	status := probeBackend(ctx, appCfg.DatabaseURL)

	if cfg.jsonOutput {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(formatStatusTable(status))
	return nil
}

// probeBackend pings the database and reads the migration version. A
// failed ping short-circuits; version errors downgrade to a reachable
// report with the error attached.
func probeBackend(ctx context.Context, databaseURL string) BackendStatus {
	var status BackendStatus

	db, err := store.Connect(ctx, databaseURL)
	if err != nil {
		status.Error = fmt.Sprintf("failed to connect: %v", err)
		return status
	}
	defer db.Close()
	status.Reachable = true

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		status.Error = fmt.Sprintf("failed to create migrator: %v", err)
		return status
	}
	defer func() { _ = migrator.Close() }()

	version, dirty, err := migrator.Version()
	if err != nil {
		status.Error = fmt.Sprintf("failed to read migration version: %v", err)
		return status
	}
	status.MigrationVersion = version
	status.Dirty = dirty

	return status
}

// formatStatusTable formats the status as a human-readable table.
func formatStatusTable(status BackendStatus) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "DATABASE\tMIGRATION\tDIRTY\tERROR")
	_, _ = fmt.Fprintln(w, "--------\t---------\t-----\t-----")

	reachable := "unreachable"
	if status.Reachable {
		reachable = "ok"
	}
	errText := "-"
	if status.Error != "" {
		errText = status.Error
	}
	_, _ = fmt.Fprintf(w, "%s\t%d\t%t\t%s\n", reachable, status.MigrationVersion, status.Dirty, errText)

	_ = w.Flush()
	return buf.String()
}
