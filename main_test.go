// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/menuctl/internal/config"
)

func loadTestConfig(t *testing.T) {
	t.Helper()
	prev := config.Config
	t.Cleanup(func() { config.Config = prev })

	_, err := config.Load("testdata/menuctl.yaml")
	require.NoError(t, err)
}

func TestMangleArguments(t *testing.T) {
	loadTestConfig(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "defaults spliced after command",
			args: []string{"menuctl", "ls", "espresso"},
			want: []string{"menuctl", "ls", "--titles", "espresso"},
		},
		{
			name: "named set replaces defaults",
			args: []string{"menuctl", "ls", "@mine", "-o", "json"},
			want: []string{"menuctl", "ls", "--all", "--filter", "soldout=false", "-o", "json"},
		},
		{
			name: "unknown set adds nothing",
			args: []string{"menuctl", "ls", "@nope", "teavana"},
			want: []string{"menuctl", "ls", "teavana"},
		},
		{
			name: "no defaults for command",
			args: []string{"menuctl", "rm", "desert", "3"},
			want: []string{"menuctl", "rm", "desert", "3"},
		},
		{
			name: "help short circuits",
			args: []string{"menuctl", "ls", "@mine", "-h"},
			want: []string{"menuctl", "ls", "--help"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mangleArguments(tt.args))
		})
	}
}

func TestFlagValue(t *testing.T) {
	args := []string{"menuctl", "ls", "-b", "redis", "--data-dir=/tmp/menu"}
	assert.Equal(t, "redis", flagValue(args, "--backend", "-b"))
	assert.Equal(t, "/tmp/menu", flagValue(args, "--data-dir"))
	assert.Empty(t, flagValue(args, "--key"))
}

func TestUsesFileBackend(t *testing.T) {
	loadTestConfig(t)
	t.Setenv("MENUCTL_BACKEND", "")

	assert.True(t, usesFileBackend([]string{"menuctl", "ls", "--backend", "file"}))
	assert.False(t, usesFileBackend([]string{"menuctl", "ls", "--backend=redis"}))
	assert.True(t, usesFileBackend([]string{"menuctl", "add", "espresso", "Latte"}))
	assert.False(t, usesFileBackend([]string{"menuctl", "ls"}))

	t.Setenv("MENUCTL_BACKEND", "file")
	assert.True(t, usesFileBackend([]string{"menuctl", "ls"}))
}
