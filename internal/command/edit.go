// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/menuctl/internal/controller"
	"github.com/staranto/menuctl/internal/menu"
	"github.com/staranto/menuctl/internal/meta"
)

// editAction loads the category named by the first arg, hands the rest of the
// args to f and prints the refreshed category.
func editAction(
	what string,
	f func(context.Context, *controller.Controller, []string) error,
) func(context.Context, *cli.Command) error {
	return func(ctx context.Context, cmd *cli.Command) error {
		cat, err := categoryArg(cmd, 0, "")
		if err != nil {
			return err
		}
		rest, err := requireArgs(cmd, 1, what)
		if err != nil {
			return err
		}

		s, err := newSession(ctx, cmd, cat, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		// The current list is needed for the duplicate check.
		if err := s.ctl.Select(ctx, cat); err != nil {
			return err
		}
		if err := f(ctx, s.ctl, rest); err != nil {
			return err
		}
		return printActive(cmd, s.ctl)
	}
}

// AddCommandAction appends an item. Remaining args are joined into the name.
var AddCommandAction = editAction("item name",
	func(ctx context.Context, ctl *controller.Controller, args []string) error {
		return ctl.Add(ctx, strings.Join(args, " "))
	})

// RenameCommandAction renames the item with the given id.
var RenameCommandAction = editAction("item id and new name",
	func(ctx context.Context, ctl *controller.Controller, args []string) error {
		return ctl.Rename(ctx, menu.ID(args[0]), strings.Join(args[1:], " "))
	})

// SoldOutCommandAction flips the sold-out flag of the item with the given id.
var SoldOutCommandAction = editAction("item id",
	func(ctx context.Context, ctl *controller.Controller, args []string) error {
		return ctl.ToggleSoldOut(ctx, menu.ID(args[0]))
	})

// RmCommandAction removes the item with the given id.
var RmCommandAction = editAction("item id",
	func(ctx context.Context, ctl *controller.Controller, args []string) error {
		return ctl.Remove(ctx, menu.ID(args[0]))
	})

func AddCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&MenuCommandBuilder{
		Name:      "add",
		Usage:     "add a menu item",
		UsageText: `menuctl add <category> <name> [options]`,
		Action:    AddCommandAction,
		Meta:      meta,
	}).Build()
}

func RenameCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&MenuCommandBuilder{
		Name:      "rename",
		Usage:     "rename a menu item",
		UsageText: `menuctl rename <category> <id> <name> [options]`,
		Action:    RenameCommandAction,
		Meta:      meta,
	}).Build()
}

func SoldOutCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&MenuCommandBuilder{
		Name:      "soldout",
		Usage:     "toggle whether a menu item is sold out",
		UsageText: `menuctl soldout <category> <id> [options]`,
		Action:    SoldOutCommandAction,
		Meta:      meta,
	}).Build()
}

func RmCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&MenuCommandBuilder{
		Name:      "rm",
		Usage:     "remove a menu item",
		UsageText: `menuctl rm <category> <id> [options]`,
		Action:    RmCommandAction,
		Meta:      meta,
	}).Build()
}
