// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package datadir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir(t *testing.T) {
	t.Setenv("MENUCTL_DATA_DIR", "/env/dir")

	d, ok := Dir("/flag/dir")
	assert.True(t, ok)
	assert.Equal(t, "/flag/dir", d)

	d, ok = Dir("")
	assert.True(t, ok)
	assert.Equal(t, "/env/dir", d)

	t.Setenv("MENUCTL_DATA_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv("HOME", "/home/someone")
	d, ok = Dir("")
	assert.True(t, ok)
	assert.Equal(t, "menuctl", filepath.Base(d))
}

func TestEnsureBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "menuctl")
	p, ok, err := EnsureBaseDir(base)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.DirExists(t, p)
}

func TestReadWrite(t *testing.T) {
	base := t.TempDir()

	e, ok, err := Read(base, "menu")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, e)

	require.NoError(t, Write(base, "menu", []byte(`{"espresso":[]}`+"\n")))

	e, ok, err = Read(base, "menu")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"espresso":[]}`, string(e.Data))
	assert.Equal(t, filepath.Join(base, "menu.json"), e.Path)

	// Overwrite leaves no temp files behind.
	require.NoError(t, Write(base, "menu", []byte(`{}`)))
	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestInvalidKey(t *testing.T) {
	for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
		_, _, err := EntryPath(t.TempDir(), key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
		assert.ErrorIs(t, Write(t.TempDir(), key, nil), ErrInvalidKey, key)
	}
}
