// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package local is the local-storage variant of the menu backend. The whole
// category map is kept in memory, mutated directly and persisted as one JSON
// document under a single key in a Snapshotter.
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/apex/log"
	"github.com/google/uuid"

	"github.com/staranto/menuctl/internal/menu"
)

// DefaultKey is the snapshot key used when none is configured.
const DefaultKey = "menu"

// ErrNoSnapshot is returned by a Snapshotter when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no snapshot")

// Snapshotter loads and saves the serialized category map.
type Snapshotter interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
	String() string
}

// BackendLocal serves menu operations from an in-memory map backed by a
// Snapshotter.
type BackendLocal struct {
	mu     sync.Mutex
	store  Snapshotter
	menu   menu.CategoryMap
	loaded bool
	newID  func() menu.ID
}

// Option customizes a BackendLocal.
type Option func(*BackendLocal)

// WithIDFunc replaces the UUID generator.
func WithIDFunc(f func() menu.ID) Option {
	return func(be *BackendLocal) { be.newID = f }
}

// NewBackendLocal returns a backend over store. Nothing is read until first
// use.
func NewBackendLocal(store Snapshotter, opts ...Option) *BackendLocal {
	be := &BackendLocal{
		store: store,
		newID: func() menu.ID { return menu.ID(uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(be)
	}
	return be
}

// ensureLoaded reads the snapshot once. Callers hold be.mu.
func (be *BackendLocal) ensureLoaded(ctx context.Context) error {
	if be.loaded {
		return nil
	}
	raw, err := be.store.Load(ctx)
	switch {
	case errors.Is(err, ErrNoSnapshot):
		be.menu = menu.CategoryMap{}
	case err != nil:
		return fmt.Errorf("failed to load snapshot from %s: %w", be.store, err)
	default:
		m, rewritten, err := Decode(raw, be.newID)
		if err != nil {
			return fmt.Errorf("failed to decode snapshot from %s: %w", be.store, err)
		}
		be.menu = m
		// Generated ids only survive this process once they are saved.
		if rewritten {
			if err := be.commit(ctx, m); err != nil {
				log.WithError(err).Warn("local: could not save normalized snapshot")
			}
		}
	}
	be.loaded = true
	return nil
}

// Decode parses a snapshot. A bare JSON array is read as the espresso list,
// which is how the single-category version stored its menu. Items without an
// id get one from newID. Keys naming the same category in different case are
// merged in sorted key order. rewritten reports whether the result differs
// from raw and should be saved back.
func Decode(raw []byte, newID func() menu.ID) (m menu.CategoryMap, rewritten bool, err error) {
	raw = bytes.TrimSpace(raw)
	m = menu.CategoryMap{}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return m, false, nil
	}

	if raw[0] == '[' {
		var items []menu.Item
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, false, err
		}
		log.Debugf("local: read legacy single-category snapshot with %d items", len(items))
		m[menu.Espresso] = items
		rewritten = true
	} else {
		var byName map[string][]menu.Item
		if err := json.Unmarshal(raw, &byName); err != nil {
			return nil, false, err
		}
		for _, k := range slices.Sorted(maps.Keys(byName)) {
			c, err := menu.ParseCategory(k)
			if err != nil {
				log.Warnf("local: dropping unknown category %q from snapshot", k)
				continue
			}
			if k != string(c) {
				rewritten = true
			}
			m[c] = append(m[c], byName[k]...)
		}
	}

	for c, items := range m {
		for i := range items {
			if items[i].ID == "" {
				items[i].ID = newID()
				rewritten = true
			}
		}
		m[c] = items
	}
	return m, rewritten, nil
}

// commit persists next and makes it current. On failure the previous map
// stays current.
func (be *BackendLocal) commit(ctx context.Context, next menu.CategoryMap) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := be.store.Save(ctx, raw); err != nil {
		return fmt.Errorf("failed to save snapshot to %s: %w", be.store, err)
	}
	be.menu = next
	return nil
}

// mutate runs f against a copy of the category and commits the result.
func (be *BackendLocal) mutate(ctx context.Context, category menu.Category, f func([]menu.Item) ([]menu.Item, error)) error {
	be.mu.Lock()
	defer be.mu.Unlock()

	if err := be.ensureLoaded(ctx); err != nil {
		return err
	}

	next := be.menu.Clone()
	items, err := f(next[category])
	if err != nil {
		return err
	}
	next[category] = items
	return be.commit(ctx, next)
}

func (be *BackendLocal) List(ctx context.Context, category menu.Category) ([]menu.Item, error) {
	be.mu.Lock()
	defer be.mu.Unlock()

	if err := be.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	items := menu.CloneItems(be.menu[category])
	if items == nil {
		items = []menu.Item{}
	}
	return items, nil
}

func (be *BackendLocal) Create(ctx context.Context, category menu.Category, name string) error {
	return be.mutate(ctx, category, func(items []menu.Item) ([]menu.Item, error) {
		return append(items, menu.Item{ID: be.newID(), Name: name}), nil
	})
}

func (be *BackendLocal) Rename(ctx context.Context, category menu.Category, id menu.ID, name string) (menu.Item, error) {
	var renamed menu.Item
	err := be.mutate(ctx, category, func(items []menu.Item) ([]menu.Item, error) {
		i := menu.Find(items, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s/%s", menu.ErrItemNotFound, category, id)
		}
		items[i].Name = name
		renamed = items[i]
		return items, nil
	})
	return renamed, err
}

func (be *BackendLocal) ToggleSoldOut(ctx context.Context, category menu.Category, id menu.ID) error {
	return be.mutate(ctx, category, func(items []menu.Item) ([]menu.Item, error) {
		i := menu.Find(items, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s/%s", menu.ErrItemNotFound, category, id)
		}
		items[i].IsSoldOut = !items[i].IsSoldOut
		return items, nil
	})
}

func (be *BackendLocal) Remove(ctx context.Context, category menu.Category, id menu.ID) error {
	return be.mutate(ctx, category, func(items []menu.Item) ([]menu.Item, error) {
		i := menu.Find(items, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s/%s", menu.ErrItemNotFound, category, id)
		}
		return append(items[:i], items[i+1:]...), nil
	})
}

func (be *BackendLocal) Close() error {
	return be.store.Close()
}

func (be *BackendLocal) String() string {
	return "local " + be.store.String()
}
