// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package backend

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/apex/log"

	"github.com/staranto/menuctl/internal/backend/local"
	"github.com/staranto/menuctl/internal/backend/remote"
	"github.com/staranto/menuctl/internal/datadir"
	"github.com/staranto/menuctl/internal/menu"
)

// Backend is the set of menu operations every store supports.
type Backend interface {
	List(ctx context.Context, category menu.Category) ([]menu.Item, error)
	Create(ctx context.Context, category menu.Category, name string) error
	Rename(ctx context.Context, category menu.Category, id menu.ID, name string) (menu.Item, error)
	ToggleSoldOut(ctx context.Context, category menu.Category, id menu.ID) error
	Remove(ctx context.Context, category menu.Category, id menu.ID) error
	Close() error
	String() string
}

// Supported backend types.
const (
	TypeRemote = "remote"
	TypeFile   = "file"
	TypeRedis  = "redis"
	TypeS3     = "s3"
	TypeSQLite = "sqlite"
)

// Types lists the accepted --backend values.
var Types = []string{TypeRemote, TypeFile, TypeRedis, TypeS3, TypeSQLite}

var (
	ErrTypeEmpty   = errors.New("backend must not be empty")
	ErrTypeUnknown = errors.New("unknown backend")
)

// Config carries everything any backend might need. Only the fields for the
// selected Type are consulted.
type Config struct {
	Type string

	// remote
	URL     string
	Token   string
	Timeout time.Duration

	// every local snapshot store
	Key string

	// file, and the default location of the sqlite database
	DataDir string

	RedisURL string

	S3Bucket   string
	S3Prefix   string
	S3Region   string
	S3Profile  string
	S3Endpoint string

	SQLitePath string
}

// Validate checks that the Type is one this package can build.
func (c Config) Validate() error {
	if c.Type == "" {
		return ErrTypeEmpty
	}
	for _, t := range Types {
		if t == c.Type {
			return nil
		}
	}
	return fmt.Errorf("%w %q (want one of %v)", ErrTypeUnknown, c.Type, Types)
}

// New builds the backend described by cfg.
func New(ctx context.Context, cfg Config) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Debugf("backend: building %s", cfg.Type)

	switch cfg.Type {
	case TypeRemote:
		url := cfg.URL
		if url == "" {
			url = remote.DefaultBaseURL
		}
		client, err := remote.NewClient(url,
			remote.WithToken(cfg.Token),
			remote.WithTimeout(cfg.Timeout),
		)
		if err != nil {
			return nil, err
		}
		return client, nil
	case TypeFile:
		snap, err := local.NewFileSnapshot(cfg.DataDir, cfg.Key)
		if err != nil {
			return nil, err
		}
		return local.NewBackendLocal(snap), nil
	case TypeRedis:
		url := cfg.RedisURL
		if url == "" {
			url = "redis://localhost:6379/0"
		}
		snap, err := local.NewRedisSnapshot(ctx, url, cfg.Key)
		if err != nil {
			return nil, err
		}
		return local.NewBackendLocal(snap), nil
	case TypeS3:
		snap, err := local.NewS3Snapshot(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.Key, local.S3Options{
			Profile:   cfg.S3Profile,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3Endpoint != "",
		})
		if err != nil {
			return nil, err
		}
		return local.NewBackendLocal(snap), nil
	case TypeSQLite:
		path := cfg.SQLitePath
		if path == "" {
			base, ok := datadir.Dir(cfg.DataDir)
			if !ok {
				return nil, errors.New("sqlite path is not set and no data directory could be resolved")
			}
			path = filepath.Join(base, "menuctl.sqlite")
		}
		snap, err := local.NewSQLiteSnapshot(ctx, path, cfg.Key)
		if err != nil {
			return nil, err
		}
		return local.NewBackendLocal(snap), nil
	}

	// Validate already rejected anything else.
	return nil, fmt.Errorf("%w %q", ErrTypeUnknown, cfg.Type)
}
