// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package store holds the in-memory category map and the active category.
// State changes only through Dispatch, which runs the pure Reduce function.
package store

import (
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/staranto/menuctl/internal/menu"
)

// State is the whole application state.
type State struct {
	Active   menu.Category
	Menu     menu.CategoryMap
	SyncedAt time.Time
}

// Clone deep-copies s.
func (s State) Clone() State {
	s.Menu = s.Menu.Clone()
	return s
}

// Items returns the items of the active category.
func (s State) Items() []menu.Item {
	return s.Menu[s.Active]
}

// Action is a state transition understood by Reduce.
type Action interface {
	action()
}

type (
	// SelectCategory makes Category the displayed one.
	SelectCategory struct{ Category menu.Category }
	// ReplaceCategory swaps in an authoritative list for one category.
	ReplaceCategory struct {
		Category menu.Category
		Items    []menu.Item
		At       time.Time
	}
	// ReplaceAll swaps in a whole category map.
	ReplaceAll struct {
		Menu menu.CategoryMap
		At   time.Time
	}
)

func (SelectCategory) action()  {}
func (ReplaceCategory) action() {}
func (ReplaceAll) action()      {}

// Reduce returns the state that results from applying a to s. s is never
// modified. Item edits reach the store only as lists fetched from a backend.
func Reduce(s State, a Action) State {
	next := s.Clone()
	if next.Menu == nil {
		next.Menu = menu.CategoryMap{}
	}

	switch a := a.(type) {
	case SelectCategory:
		next.Active = a.Category
	case ReplaceCategory:
		next.Menu[a.Category] = menu.CloneItems(a.Items)
		next.SyncedAt = a.At
	case ReplaceAll:
		next.Menu = a.Menu.Clone()
		if next.Menu == nil {
			next.Menu = menu.CategoryMap{}
		}
		next.SyncedAt = a.At
	default:
		log.Warnf("store: ignoring unknown action %T", a)
	}

	return next
}

// Store serializes access to a State.
type Store struct {
	mu    sync.RWMutex
	state State
}

// New returns a Store showing the given category with an empty menu.
func New(active menu.Category) *Store {
	return &Store{state: State{Active: active, Menu: menu.CategoryMap{}}}
}

// Dispatch applies a and returns a copy of the resulting state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	log.Debugf("store: %T -> active=%s items=%d", a, s.state.Active, len(s.state.Items()))
	return s.state.Clone()
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Active returns the displayed category and a copy of its items.
func (s *Store) Active() (menu.Category, []menu.Item) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Active, menu.CloneItems(s.state.Items())
}
