// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/staranto/menuctl/internal/controller"
	"github.com/staranto/menuctl/internal/menu"
	"github.com/staranto/menuctl/internal/render"
)

var (
	accent = lipgloss.Color("#f6be00")
	muted  = lipgloss.Color("#767676")
	alert  = lipgloss.Color("#ff5f5f")

	activeTabStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(accent).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
	cursorStyle      = lipgloss.NewStyle().Bold(true).Foreground(accent)
	soldOutStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	statusStyle      = lipgloss.NewStyle().Foreground(muted)
	errorStyle       = lipgloss.NewStyle().Foreground(alert)
	emptyStyle       = lipgloss.NewStyle().Italic(true).Foreground(muted)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(tabs(m.view.Category))
	b.WriteString("\n\n")

	if len(m.view.Rows) == 0 {
		b.WriteString(emptyStyle.Render("  nothing on the " + m.view.Category.Title() + " menu yet"))
		b.WriteString("\n")
	}
	for i, row := range m.view.Rows {
		b.WriteString(m.renderRow(i, row))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.mode {
	case modeAdd:
		b.WriteString("Add: " + m.input.View() + "\n")
	case modeRename:
		b.WriteString("Rename: " + m.input.View() + "\n")
	case modeConfirmDelete:
		if row, ok := m.selected(); ok {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Delete %q? (y/n)", row.Name)) + "\n")
		}
	}

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func tabs(active menu.Category) string {
	parts := make([]string, 0, len(menu.Categories))
	for i, c := range menu.Categories {
		label := fmt.Sprintf("%d %s", i+1, c.Title())
		if c == active {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderRow(i int, row render.Row) string {
	marker := "  "
	if i == m.cursor {
		marker = cursorStyle.Render("> ")
	}

	line := fmt.Sprintf("%2d  %s", row.Position, row.Name)
	if row.SoldOut {
		line = soldOutStyle.Render(line) + statusStyle.Render("  sold out")
	}
	return marker + line
}

func (m Model) statusLine() string {
	parts := []string{render.Badge(m.view)}

	synced := m.st.State().SyncedAt
	if synced.IsZero() {
		parts = append(parts, "not synced")
	} else {
		parts = append(parts, "synced "+humanize.RelTime(synced, m.now(), "ago", "from now"))
	}

	if m.pending() {
		parts = append(parts, "working…")
	}

	line := statusStyle.Render(strings.Join(parts, " · "))
	if m.status.Message != "" {
		text := m.status.String()
		if m.status.Level == controller.LevelInfo {
			line += "  " + statusStyle.Render(text)
		} else {
			line += "  " + errorStyle.Render(text)
		}
	}
	return line
}
