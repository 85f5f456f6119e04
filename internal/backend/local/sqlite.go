// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	createSnapshots = `CREATE TABLE IF NOT EXISTS snapshots (
    name TEXT PRIMARY KEY,
    body TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	selectSnapshot = `SELECT name, body, updated_at FROM snapshots WHERE name = ?`

	upsertSnapshot = `INSERT INTO snapshots (name, body, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`
)

type snapshotRow struct {
	Name      string `db:"name"`
	Body      string `db:"body"`
	UpdatedAt string `db:"updated_at"`
}

// SQLiteSnapshot keeps the snapshot as row Key of table snapshots.
type SQLiteSnapshot struct {
	db   *sqlx.DB
	Path string
	Key  string
}

// NewSQLiteSnapshot opens (creating if needed) the database at path.
func NewSQLiteSnapshot(ctx context.Context, path, key string) (*SQLiteSnapshot, error) {
	if path == "" {
		return nil, errors.New("sqlite path is not set")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// One writer; the local backend already serializes access.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createSnapshots); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshots table: %w", err)
	}

	if key == "" {
		key = DefaultKey
	}
	return &SQLiteSnapshot{db: db, Path: path, Key: key}, nil
}

func (s *SQLiteSnapshot) Load(ctx context.Context) ([]byte, error) {
	var row snapshotRow
	err := s.db.GetContext(ctx, &row, selectSnapshot, s.Key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot %s: %w", s.Key, err)
	}
	return []byte(row.Body), nil
}

func (s *SQLiteSnapshot) Save(ctx context.Context, data []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, upsertSnapshot, s.Key, string(data), now); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", s.Key, err)
	}
	return nil
}

func (s *SQLiteSnapshot) Close() error {
	return s.db.Close()
}

func (s *SQLiteSnapshot) String() string {
	return fmt.Sprintf("sqlite %s key=%s", s.Path, s.Key)
}
