// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package controller runs user actions against a backend and keeps the store
// in step with it. After every successful write the active category is
// fetched again and that fetch, not the write, decides what is shown.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apex/log"

	"github.com/staranto/menuctl/internal/backend"
	"github.com/staranto/menuctl/internal/backend/remote"
	"github.com/staranto/menuctl/internal/menu"
	"github.com/staranto/menuctl/internal/render"
	"github.com/staranto/menuctl/internal/store"
)

// ErrBusy is returned when an action is requested while another is pending.
var ErrBusy = errors.New("another action is still in progress")

// Phase is where the controller is in handling an action.
type Phase int32

const (
	Idle Phase = iota
	Pending
)

func (p Phase) String() string {
	if p == Pending {
		return "pending"
	}
	return "idle"
}

// Operation names used in notices and error messages.
const (
	OpSelect  = "list menu"
	OpReload  = "reload menu"
	OpAdd     = "add menu"
	OpRename  = "rename menu"
	OpSoldOut = "toggle sold-out"
	OpRemove  = "remove menu"
)

// Options configure a Controller. The zero value rejects nothing and renders
// nowhere.
type Options struct {
	RejectDuplicates bool
	Notifier         Notifier
	OnRender         func(render.View)
	// Now stamps sync times. Defaults to time.Now.
	Now func() time.Time
}

// Controller is the sync controller. It is safe for concurrent use, but runs
// at most one action at a time.
type Controller struct {
	be    backend.Backend
	store *store.Store
	opts  Options

	inflight sync.Mutex
	phase    atomic.Int32
}

// New returns a Controller driving be and st.
func New(be backend.Backend, st *store.Store, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(Notice) {})
	}
	return &Controller{be: be, store: st, opts: opts}
}

// Phase reports whether an action is in flight.
func (c *Controller) Phase() Phase {
	return Phase(c.phase.Load())
}

// View projects the active category as currently held by the store.
func (c *Controller) View() render.View {
	cat, items := c.store.Active()
	return render.Project(cat, items)
}

// Select switches the active category and fetches it. When the fetch fails
// the last known list for the category stays on display.
func (c *Controller) Select(ctx context.Context, category menu.Category) error {
	return c.run(ctx, OpSelect, func(ctx context.Context) error {
		c.store.Dispatch(store.SelectCategory{Category: category})
		err := c.refresh(ctx, OpSelect, category)
		if err != nil {
			c.render()
		}
		return err
	})
}

// Reload fetches the active category again.
func (c *Controller) Reload(ctx context.Context) error {
	return c.run(ctx, OpReload, func(ctx context.Context) error {
		cat, _ := c.store.Active()
		return c.refresh(ctx, OpReload, cat)
	})
}

// ReloadAll fetches every category. The store is only replaced when all of
// them were fetched.
func (c *Controller) ReloadAll(ctx context.Context) error {
	return c.run(ctx, OpReload, func(ctx context.Context) error {
		m := menu.CategoryMap{}
		for _, cat := range menu.Categories {
			items, err := c.be.List(ctx, cat)
			if err != nil {
				return c.fail(OpReload, cat, err)
			}
			m[cat] = items
		}
		c.store.Dispatch(store.ReplaceAll{Menu: m, At: c.opts.Now()})
		c.render()
		return nil
	})
}

// Add creates an item in the active category.
func (c *Controller) Add(ctx context.Context, name string) error {
	cat, items := c.store.Active()
	name, err := menu.ValidateName(name, items, c.opts.RejectDuplicates, "")
	if err != nil {
		return c.invalid(OpAdd, cat, err)
	}
	return c.write(ctx, OpAdd, cat, fmt.Sprintf("added %q", name), func(ctx context.Context) error {
		return c.be.Create(ctx, cat, name)
	})
}

// Rename changes the name of an item in the active category.
func (c *Controller) Rename(ctx context.Context, id menu.ID, name string) error {
	cat, items := c.store.Active()
	name, err := menu.ValidateName(name, items, c.opts.RejectDuplicates, id)
	if err != nil {
		return c.invalid(OpRename, cat, err)
	}
	return c.write(ctx, OpRename, cat, fmt.Sprintf("renamed to %q", name), func(ctx context.Context) error {
		_, err := c.be.Rename(ctx, cat, id, name)
		return err
	})
}

// ToggleSoldOut flips the sold-out flag of an item in the active category.
func (c *Controller) ToggleSoldOut(ctx context.Context, id menu.ID) error {
	cat, _ := c.store.Active()
	return c.write(ctx, OpSoldOut, cat, "sold-out toggled", func(ctx context.Context) error {
		return c.be.ToggleSoldOut(ctx, cat, id)
	})
}

// Remove deletes an item from the active category.
func (c *Controller) Remove(ctx context.Context, id menu.ID) error {
	cat, _ := c.store.Active()
	return c.write(ctx, OpRemove, cat, "removed", func(ctx context.Context) error {
		return c.be.Remove(ctx, cat, id)
	})
}

// write runs a mutation and, if it succeeds, refreshes cat.
func (c *Controller) write(ctx context.Context, op string, cat menu.Category, done string, f func(context.Context) error) error {
	return c.run(ctx, op, func(ctx context.Context) error {
		if err := f(ctx); err != nil {
			return c.fail(op, cat, err)
		}
		if err := c.refresh(ctx, op, cat); err != nil {
			return err
		}
		c.opts.Notifier.Notify(Notice{Level: LevelInfo, Op: op, Category: cat, Message: done})
		return nil
	})
}

// run moves idle -> pending -> idle around f, refusing to overlap actions.
func (c *Controller) run(ctx context.Context, op string, f func(context.Context) error) error {
	if !c.inflight.TryLock() {
		cat, _ := c.store.Active()
		c.opts.Notifier.Notify(Notice{Level: LevelWarn, Op: op, Category: cat, Message: ErrBusy.Error(), Err: ErrBusy})
		return ErrBusy
	}
	defer c.inflight.Unlock()

	c.phase.Store(int32(Pending))
	defer c.phase.Store(int32(Idle))

	log.Debugf("controller: %s pending on %s", op, c.be)
	return f(ctx)
}

// refresh fetches cat and, on success, replaces it in the store and renders.
func (c *Controller) refresh(ctx context.Context, op string, cat menu.Category) error {
	items, err := c.be.List(ctx, cat)
	if err != nil {
		return c.fail(op, cat, err)
	}
	c.store.Dispatch(store.ReplaceCategory{Category: cat, Items: items, At: c.opts.Now()})
	c.render()
	return nil
}

func (c *Controller) render() {
	if c.opts.OnRender != nil {
		c.opts.OnRender(c.View())
	}
}

// invalid reports a validation failure. No backend call has been made.
func (c *Controller) invalid(op string, cat menu.Category, err error) error {
	c.opts.Notifier.Notify(Notice{Level: LevelWarn, Op: op, Category: cat, Message: err.Error(), Err: err})
	return err
}

// fail reports a backend failure and returns it in user-facing form.
func (c *Controller) fail(op string, cat menu.Category, err error) error {
	err = remote.FriendlyError(err, remote.ErrorContext{
		Host:      c.be.String(),
		Category:  string(cat),
		Operation: op,
	})
	log.WithError(err).Debugf("controller: %s failed", op)
	c.opts.Notifier.Notify(Notice{Level: LevelError, Op: op, Category: cat, Message: err.Error(), Err: err})
	return err
}
