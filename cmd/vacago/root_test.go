// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "migrate")
	assert.Contains(t, names, "seed")
	assert.Contains(t, names, "status")
}

func TestNewRootCmd_GlobalFlags(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{"config", "database-url", "auth-secret", "session-ttl-hours", "log-format"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing global flag %q", name)
	}
}

func TestNewRootCmd_Help(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"--help"})
	err := cmd.Execute()
	require.NoError(t, err)
}
