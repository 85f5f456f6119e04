// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package datadir resolves where local menu snapshots live on disk and reads
// and writes them atomically.
package datadir

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/apex/log"
)

// Entry is a snapshot file on disk.
type Entry struct {
	Key  string
	Path string
	Data []byte
}

// ErrInvalidKey is returned for keys that would escape the data directory.
var ErrInvalidKey = errors.New("invalid snapshot key")

var keyRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Dir resolves the base data directory.
// Precedence:
//  1. override, if non-empty
//  2. MENUCTL_DATA_DIR, if set and non-empty
//  3. os.UserConfigDir()/menuctl
//
// Returns ("", false) if a base cannot be resolved.
func Dir(override string) (string, bool) {
	if override != "" {
		return override, true
	}
	if d, ok := os.LookupEnv("MENUCTL_DATA_DIR"); ok && d != "" {
		return d, true
	}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "menuctl"), true
	}
	return "", false
}

// EnsureBaseDir creates the base directory. It returns the path, whether it is
// usable, and an error if creation failed.
func EnsureBaseDir(override string) (string, bool, error) {
	base, ok := Dir(override)
	if !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create data directory: %w", err)
	}
	return base, true, nil
}

// EntryPath returns where the snapshot for key lives, and whether a file
// currently exists there.
func EntryPath(base, key string) (string, bool, error) {
	if !keyRegex.MatchString(key) {
		return "", false, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	p := filepath.Join(base, key+".json")
	if _, err := os.Stat(p); err == nil {
		return p, true, nil
	}
	return p, false, nil
}

// Read returns the snapshot for key, or (nil, false, nil) when none exists.
func Read(base, key string) (*Entry, bool, error) {
	p, ok, err := EntryPath(base, key)
	if err != nil || !ok {
		return nil, false, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return &Entry{Key: key, Path: p, Data: bytes.TrimSpace(b)}, true, nil
}

// Write stores data for key using a temp file, fsync and rename so a reader
// never sees a half-written snapshot.
func Write(base, key string, data []byte) error {
	p, _, err := EntryPath(base, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(base, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil { //nolint:mnd
		log.WithError(err).Warnf("failed to chmod %s", tmpName)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	log.Debugf("datadir: wrote %d bytes to %s", len(data), p)
	return nil
}
