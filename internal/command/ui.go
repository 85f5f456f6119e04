// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/menuctl/internal/controller"
	"github.com/staranto/menuctl/internal/menu"
	"github.com/staranto/menuctl/internal/meta"
	"github.com/staranto/menuctl/internal/tui"
)

var errNoTerminal = errors.New("ui needs an interactive terminal")

// UiCommandAction opens the interactive editor on the given category.
func UiCommandAction(ctx context.Context, cmd *cli.Command) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTerminal
	}

	cat, err := categoryArg(cmd, 0, menu.Espresso)
	if err != nil {
		return err
	}

	notices := controller.NewChanNotifier(16) //nolint:mnd
	s, err := newSession(ctx, cmd, cat, notices)
	if err != nil {
		return err
	}
	defer s.Close()

	return tui.Run(ctx, s.ctl, s.st, notices)
}

func UiCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&MenuCommandBuilder{
		Name:      "ui",
		Usage:     "interactive menu editor",
		UsageText: `menuctl ui [category] [options]`,
		NoOutput:  true,
		Action:    UiCommandAction,
		Meta:      meta,
	}).Build()
}
