// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"

	"github.com/staranto/menuctl/internal/datadir"
)

// FileSnapshot keeps the snapshot in <dir>/<key>.json.
type FileSnapshot struct {
	Dir string
	Key string
}

// NewFileSnapshot resolves dir (empty means the default data directory).
func NewFileSnapshot(dir, key string) (*FileSnapshot, error) {
	base, _, err := datadir.EnsureBaseDir(dir)
	if err != nil {
		return nil, err
	}
	if key == "" {
		key = DefaultKey
	}
	if _, _, err := datadir.EntryPath(base, key); err != nil {
		return nil, err
	}
	return &FileSnapshot{Dir: base, Key: key}, nil
}

func (s *FileSnapshot) Load(_ context.Context) ([]byte, error) {
	e, ok, err := datadir.Read(s.Dir, s.Key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSnapshot
	}
	return e.Data, nil
}

func (s *FileSnapshot) Save(_ context.Context, data []byte) error {
	return datadir.Write(s.Dir, s.Key, data)
}

func (s *FileSnapshot) Close() error { return nil }

func (s *FileSnapshot) String() string {
	p, _, _ := datadir.EntryPath(s.Dir, s.Key)
	return "file " + p
}
