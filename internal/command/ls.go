// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/staranto/menuctl/internal/menu"
	"github.com/staranto/menuctl/internal/meta"
	"github.com/staranto/menuctl/internal/output"
	"github.com/staranto/menuctl/internal/render"
)

// LsCommandAction lists one category, or every category with --all.
func LsCommandAction(ctx context.Context, cmd *cli.Command) error {
	cat, err := categoryArg(cmd, 0, menu.Espresso)
	if err != nil {
		return err
	}

	s, err := newSession(ctx, cmd, cat, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if !cmd.Bool("all") {
		if err := s.ctl.Select(ctx, cat); err != nil {
			return err
		}
		return printActive(cmd, s.ctl)
	}

	if err := s.ctl.ReloadAll(ctx); err != nil {
		return err
	}

	opts := output.OptionsFromCommand(cmd)
	state := s.st.State()
	var errs []error
	for _, c := range menu.Categories {
		errs = append(errs, output.Spit(render.Project(c, state.Menu[c]), opts, writer(cmd)))
	}
	return errors.Join(errs...)
}

// LsCommandBuilder constructs the cli.Command for "ls".
func LsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&MenuCommandBuilder{
		Name:      "ls",
		Usage:     "list menu items",
		UsageText: `menuctl ls [category] [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"A"},
				Usage:       "list every category",
				HideDefault: true,
			},
		},
		Action: LsCommandAction,
		Meta:   meta,
	}).Build()
}
