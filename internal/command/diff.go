// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/menuctl/internal/backend"
	"github.com/staranto/menuctl/internal/backend/remote"
	"github.com/staranto/menuctl/internal/controller"
	"github.com/staranto/menuctl/internal/differ"
	"github.com/staranto/menuctl/internal/menu"
	"github.com/staranto/menuctl/internal/meta"
)

// DiffCommandAction compares a category as held by the configured backend
// with the same category in the --against backend.
func DiffCommandAction(ctx context.Context, cmd *cli.Command) error {
	cat, err := categoryArg(cmd, 0, "")
	if err != nil {
		return err
	}

	leftCfg := BackendConfigFromCommand(cmd)
	rightCfg := leftCfg
	rightCfg.Type = cmd.String("against")
	if rightCfg.Type == leftCfg.Type {
		return fmt.Errorf("--against must name a backend other than %q", leftCfg.Type)
	}

	left, err := listFrom(ctx, leftCfg, cat)
	if err != nil {
		return err
	}
	right, err := listFrom(ctx, rightCfg, cat)
	if err != nil {
		return err
	}

	res, err := differ.Items(left, right, !cmd.Bool("ids"), cmd.Bool("color"))
	if err != nil {
		return err
	}

	w := writer(cmd)
	if !res.Modified {
		_, err = fmt.Fprintln(w, "no differences")
		return err
	}
	_, err = fmt.Fprint(w, res.Text)
	return err
}

func listFrom(ctx context.Context, cfg backend.Config, cat menu.Category) ([]menu.Item, error) {
	be, err := backend.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := be.Close(); err != nil {
			log.WithError(err).Debug("closing backend")
		}
	}()

	items, err := be.List(ctx, cat)
	if err != nil {
		return nil, remote.FriendlyError(err, remote.ErrorContext{
			Host:      be.String(),
			Category:  string(cat),
			Operation: controller.OpSelect,
		})
	}
	return items, nil
}

func DiffCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&MenuCommandBuilder{
		Name:      "diff",
		Usage:     "compare a category across two backends",
		UsageText: `menuctl diff <category> --against <backend> [options]`,
		NoOutput:  true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "against",
				Usage:    "backend to compare with",
				Required: true,
				Validator: func(value string) error {
					return FlagValidators(value, JammedFlagValidator, BackendValidator)
				},
			},
			&cli.BoolWithInverseFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "enable colored diff output",
				Value:   false,
			},
			&cli.BoolFlag{
				Name:        "ids",
				Usage:       "also compare item ids",
				HideDefault: true,
			},
		},
		Action: DiffCommandAction,
		Meta:   meta,
	}).Build()
}
