// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatStatusTable(t *testing.T) {
	out := formatStatusTable(BackendStatus{Reachable: true, MigrationVersion: 2})

	assert.Contains(t, out, "DATABASE")
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "2")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3, "header, separator, and one data row")
}

func TestFormatStatusTable_Unreachable(t *testing.T) {
	out := formatStatusTable(BackendStatus{Error: "failed to connect: connection refused"})

	assert.Contains(t, out, "unreachable")
	assert.Contains(t, out, "connection refused")
}

func TestNewStatusCmd_Flags(t *testing.T) {
	cmd := NewStatusCmd()
	assert.NotNil(t, cmd.Flags().Lookup("json"))
	assert.NotNil(t, cmd.Flags().Lookup("timeout"))
}
