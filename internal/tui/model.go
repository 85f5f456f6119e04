// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package tui is the interactive menu editor. Every action goes through the
// controller; the model only ever draws what the store holds.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/staranto/menuctl/internal/controller"
	"github.com/staranto/menuctl/internal/menu"
	"github.com/staranto/menuctl/internal/render"
	"github.com/staranto/menuctl/internal/store"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeRename
	modeConfirmDelete
)

// actionDoneMsg reports that a controller action returned.
type actionDoneMsg struct {
	err error
}

// Model is the bubbletea model for the editor.
type Model struct {
	ctx     context.Context
	ctl     *controller.Controller
	st      *store.Store
	notices <-chan controller.Notice

	keys  keyMap
	help  help.Model
	input textinput.Model

	mode    mode
	cursor  int
	target  menu.ID
	view    render.View
	status  controller.Notice
	width   int

	// inflight counts commands started by run that have not reported back.
	inflight int

	now func() time.Time
}

// New returns a Model driving ctl. Notices sent on notices are shown on the
// status line.
func New(ctx context.Context, ctl *controller.Controller, st *store.Store, notices <-chan controller.Notice) Model {
	ti := textinput.New()
	ti.CharLimit = 80
	ti.Width = 40
	ti.Cursor.SetMode(cursor.CursorStatic)

	return Model{
		ctx:     ctx,
		ctl:     ctl,
		st:      st,
		notices: notices,
		keys:    defaultKeys(),
		help:    help.New(),
		input:   ti,
		view:    ctl.View(),
		now:     time.Now,
	}
}

// Init selects the starting category, which fetches it.
func (m Model) Init() tea.Cmd {
	cat := m.view.Category
	return m.run(func(ctx context.Context) error {
		return m.ctl.Select(ctx, cat)
	})
}

func (m Model) pending() bool {
	return m.inflight > 0
}

// run executes f off the UI loop and reports back with actionDoneMsg.
func (m *Model) run(f func(context.Context) error) tea.Cmd {
	m.inflight++
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{err: f(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case actionDoneMsg:
		if m.inflight > 0 {
			m.inflight--
		}
		m.view = m.ctl.View()
		m.clampCursor()
		m.drainNotices()
		if msg.err != nil {
			log.WithError(msg.err).Debug("tui: action failed")
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAdd, modeRename:
			return m.updateInput(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Next):
		return m.selectCategory(m.view.Category.Index() + 1)

	case key.Matches(msg, m.keys.Prev):
		return m.selectCategory(m.view.Category.Index() - 1)

	case key.Matches(msg, m.keys.Jump):
		return m.selectCategory(int(msg.String()[0] - '1'))

	case key.Matches(msg, m.keys.Reload):
		return m, m.run(m.ctl.Reload)

	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.input.Placeholder = "new item in " + m.view.Category.Title()
		m.input.SetValue("")
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Edit):
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeRename
		m.target = row.ID
		m.input.Placeholder = row.Name
		m.input.SetValue(row.Name)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.SoldOut):
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		id := row.ID
		return m, m.run(func(ctx context.Context) error {
			return m.ctl.ToggleSoldOut(ctx, id)
		})

	case key.Matches(msg, m.keys.Delete):
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.target = row.ID
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		name := m.input.Value()
		id := m.target
		adding := m.mode == modeAdd
		m.mode = modeBrowse
		m.input.Blur()
		return m, m.run(func(ctx context.Context) error {
			if adding {
				return m.ctl.Add(ctx, name)
			}
			return m.ctl.Rename(ctx, id, name)
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	if strings.ToLower(msg.String()) != "y" {
		return m, nil
	}
	id := m.target
	return m, m.run(func(ctx context.Context) error {
		return m.ctl.Remove(ctx, id)
	})
}

// selectCategory switches to the category at index i, wrapping around.
func (m Model) selectCategory(i int) (tea.Model, tea.Cmd) {
	n := len(menu.Categories)
	i = ((i % n) + n) % n
	cat := menu.Categories[i]
	m.cursor = 0
	return m, m.run(func(ctx context.Context) error {
		return m.ctl.Select(ctx, cat)
	})
}

func (m Model) selected() (render.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Rows) {
		return render.Row{}, false
	}
	return m.view.Rows[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.view.Rows) {
		m.cursor = len(m.view.Rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// drainNotices keeps the most recent notice without blocking.
func (m *Model) drainNotices() {
	for {
		select {
		case n := <-m.notices:
			m.status = n
		default:
			return
		}
	}
}
