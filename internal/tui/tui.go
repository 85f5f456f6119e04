// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/staranto/menuctl/internal/controller"
	"github.com/staranto/menuctl/internal/store"
)

// Run starts the editor on the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, ctl *controller.Controller, st *store.Store, notices *controller.ChanNotifier) error {
	var ch <-chan controller.Notice
	if notices != nil {
		ch = notices.C
	}

	p := tea.NewProgram(New(ctx, ctl, st, ch), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running menu editor: %w", err)
	}
	return nil
}
