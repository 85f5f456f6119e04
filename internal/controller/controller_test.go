// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/menuctl/internal/menu"
	"github.com/staranto/menuctl/internal/render"
	"github.com/staranto/menuctl/internal/store"
)

// fakeBackend is an in-memory backend.Backend that counts calls and can be
// told to fail or block.
type fakeBackend struct {
	mu       sync.Mutex
	menu     menu.CategoryMap
	next     int
	calls    map[string]int
	writeErr error
	listErr  error
	block    chan struct{}
	entered  chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{menu: menu.CategoryMap{}, calls: map[string]int{}}
}

func (f *fakeBackend) count(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeBackend) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeBackend) List(_ context.Context, c menu.Category) ([]menu.Item, error) {
	f.count("list")
	if f.block != nil {
		f.entered <- struct{}{}
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return menu.CloneItems(f.menu[c]), nil
}

func (f *fakeBackend) Create(_ context.Context, c menu.Category, name string) error {
	f.count("create")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.next++
	f.menu[c] = append(f.menu[c], menu.Item{ID: menu.ID(fmt.Sprint(f.next)), Name: name})
	return nil
}

func (f *fakeBackend) Rename(_ context.Context, c menu.Category, id menu.ID, name string) (menu.Item, error) {
	f.count("rename")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return menu.Item{}, f.writeErr
	}
	i := menu.Find(f.menu[c], id)
	if i < 0 {
		return menu.Item{}, menu.ErrItemNotFound
	}
	f.menu[c][i].Name = name
	return f.menu[c][i], nil
}

func (f *fakeBackend) ToggleSoldOut(_ context.Context, c menu.Category, id menu.ID) error {
	f.count("soldout")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	i := menu.Find(f.menu[c], id)
	if i < 0 {
		return menu.ErrItemNotFound
	}
	f.menu[c][i].IsSoldOut = !f.menu[c][i].IsSoldOut
	return nil
}

func (f *fakeBackend) Remove(_ context.Context, c menu.Category, id menu.ID) error {
	f.count("remove")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	i := menu.Find(f.menu[c], id)
	if i < 0 {
		return menu.ErrItemNotFound
	}
	f.menu[c] = append(f.menu[c][:i], f.menu[c][i+1:]...)
	return nil
}

func (f *fakeBackend) Close() error   { return nil }
func (f *fakeBackend) String() string { return "fake" }

type harness struct {
	be      *fakeBackend
	st      *store.Store
	ctl     *Controller
	views   []render.View
	notices []Notice
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{be: newFakeBackend(), st: store.New(menu.Espresso)}
	h.ctl = New(h.be, h.st, Options{
		RejectDuplicates: true,
		Notifier:         NotifierFunc(func(n Notice) { h.notices = append(h.notices, n) }),
		OnRender:         func(v render.View) { h.views = append(h.views, v) },
		Now:              func() time.Time { return time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC) },
	})
	return h
}

func (h *harness) last() render.View {
	return h.views[len(h.views)-1]
}

func TestAddRefreshesAndRenders(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.ctl.Add(ctx, "  Americano "))
	assert.Equal(t, 1, h.be.Calls("create"))
	assert.Equal(t, 1, h.be.Calls("list"))

	v := h.last()
	assert.Equal(t, menu.Espresso, v.Category)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "Americano", v.Rows[0].Name)
	assert.Equal(t, 1, v.Total)
	assert.Equal(t, 1, v.Available)
	assert.Equal(t, Idle, h.ctl.Phase())
	assert.False(t, h.st.State().SyncedAt.IsZero())

	require.Len(t, h.notices, 1)
	assert.Equal(t, LevelInfo, h.notices[0].Level)
}

func TestAddRejectsWithoutNetworkCall(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctl.Add(ctx, "Latte"))

	err := h.ctl.Add(ctx, " Latte ")
	assert.ErrorIs(t, err, menu.ErrDuplicateName)
	err = h.ctl.Add(ctx, "   ")
	assert.ErrorIs(t, err, menu.ErrEmptyName)

	assert.Equal(t, 1, h.be.Calls("create"))
	assert.Equal(t, 1, h.be.Calls("list"))
	assert.Equal(t, LevelWarn, h.notices[len(h.notices)-1].Level)
}

func TestRenameIgnoresOwnName(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctl.Add(ctx, "Latte"))
	require.NoError(t, h.ctl.Add(ctx, "Mocha"))

	require.NoError(t, h.ctl.Rename(ctx, "1", "LATTE"))
	assert.Equal(t, "LATTE", h.last().Rows[0].Name)

	err := h.ctl.Rename(ctx, "1", "Mocha")
	assert.ErrorIs(t, err, menu.ErrDuplicateName)
	assert.Equal(t, 1, h.be.Calls("rename"))
}

func TestToggleTwiceRestores(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctl.Add(ctx, "Cortado"))

	require.NoError(t, h.ctl.ToggleSoldOut(ctx, "1"))
	assert.True(t, h.last().Rows[0].SoldOut)
	assert.Equal(t, 0, h.last().Available)

	require.NoError(t, h.ctl.ToggleSoldOut(ctx, "1"))
	assert.False(t, h.last().Rows[0].SoldOut)
	assert.Equal(t, 1, h.last().Available)
}

func TestRemoveDecrementsTotal(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctl.Add(ctx, "Latte"))
	require.NoError(t, h.ctl.Add(ctx, "Mocha"))
	assert.Equal(t, 2, h.last().Total)

	require.NoError(t, h.ctl.Remove(ctx, "1"))
	v := h.last()
	assert.Equal(t, 1, v.Total)
	assert.Equal(t, "Mocha", v.Rows[0].Name)
	assert.Equal(t, 1, v.Rows[0].Position)
}

func TestFailedWriteKeepsState(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctl.Add(ctx, "Latte"))
	before := h.st.State()
	rendered := len(h.views)

	h.be.writeErr = errors.New("boom")
	err := h.ctl.Add(ctx, "Mocha")
	require.Error(t, err)
	assert.ErrorIs(t, err, h.be.writeErr)

	assert.Equal(t, before, h.st.State())
	assert.Len(t, h.views, rendered)
	assert.Equal(t, Idle, h.ctl.Phase())
	assert.Equal(t, LevelError, h.notices[len(h.notices)-1].Level)
	assert.Equal(t, 1, h.be.Calls("list"))
}

func TestFailedRefreshKeepsState(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctl.Add(ctx, "Latte"))
	before := h.st.State()

	h.be.listErr = errors.New("gone")
	require.Error(t, h.ctl.Add(ctx, "Mocha"))
	assert.Equal(t, before, h.st.State())
}

func TestSelectReplacesCategory(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.be.menu[menu.Teavana] = []menu.Item{{ID: "t1", Name: "Chai", IsSoldOut: true}}

	require.NoError(t, h.ctl.Select(ctx, menu.Teavana))
	v := h.last()
	assert.Equal(t, menu.Teavana, v.Category)
	assert.Equal(t, 1, v.Total)
	assert.Equal(t, 0, v.Available)

	// Writes go to the selected category.
	require.NoError(t, h.ctl.Add(ctx, "Earl Grey"))
	assert.Len(t, h.be.menu[menu.Teavana], 2)
	assert.Empty(t, h.be.menu[menu.Espresso])
}

func TestSelectFailureShowsLastKnown(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.be.menu[menu.Blended] = []menu.Item{{ID: "b1", Name: "Java Chip"}}
	require.NoError(t, h.ctl.Select(ctx, menu.Blended))
	require.NoError(t, h.ctl.Select(ctx, menu.Espresso))

	h.be.listErr = errors.New("offline")
	err := h.ctl.Select(ctx, menu.Blended)
	require.Error(t, err)

	v := h.last()
	assert.Equal(t, menu.Blended, v.Category)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "Java Chip", v.Rows[0].Name)
}

func TestReloadAll(t *testing.T) {
	h := newHarness(t)
	h.be.menu[menu.Espresso] = []menu.Item{{ID: "e1", Name: "Latte"}}
	h.be.menu[menu.Desert] = []menu.Item{{ID: "d1", Name: "Scone"}}

	require.NoError(t, h.ctl.ReloadAll(context.Background()))
	assert.Equal(t, len(menu.Categories), h.be.Calls("list"))
	assert.Len(t, h.st.State().Menu[menu.Desert], 1)

	h.be.listErr = errors.New("offline")
	before := h.st.State()
	require.Error(t, h.ctl.ReloadAll(context.Background()))
	assert.Equal(t, before, h.st.State())
}

func TestBusyRefusesOverlap(t *testing.T) {
	h := newHarness(t)
	h.be.block = make(chan struct{})
	h.be.entered = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() { done <- h.ctl.Reload(context.Background()) }()

	<-h.be.entered
	assert.Equal(t, Pending, h.ctl.Phase())
	assert.ErrorIs(t, h.ctl.Add(context.Background(), "Latte"), ErrBusy)
	assert.Equal(t, 0, h.be.Calls("create"))

	close(h.be.block)
	require.NoError(t, <-done)
	assert.Equal(t, Idle, h.ctl.Phase())
}

func TestChanNotifierDropsWhenFull(t *testing.T) {
	n := NewChanNotifier(1)
	n.Notify(Notice{Message: "one"})
	n.Notify(Notice{Message: "two"})
	assert.Equal(t, "one", (<-n.C).Message)
	assert.Empty(t, n.C)
}
