// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/menuctl/internal/backend"
	"github.com/staranto/menuctl/internal/controller"
	"github.com/staranto/menuctl/internal/menu"
	"github.com/staranto/menuctl/internal/meta"
	"github.com/staranto/menuctl/internal/output"
	"github.com/staranto/menuctl/internal/store"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// BackendConfigFromCommand collects the backend flags into a backend.Config.
func BackendConfigFromCommand(cmd *cli.Command) backend.Config {
	return backend.Config{
		Type:       cmd.String("backend"),
		URL:        cmd.String("url"),
		Token:      cmd.String("token"),
		Timeout:    cmd.Duration("timeout"),
		Key:        cmd.String("key"),
		DataDir:    cmd.String("data-dir"),
		RedisURL:   cmd.String("redis-url"),
		S3Bucket:   cmd.String("s3-bucket"),
		S3Prefix:   cmd.String("s3-prefix"),
		S3Region:   cmd.String("s3-region"),
		S3Profile:  cmd.String("s3-profile"),
		S3Endpoint: cmd.String("s3-endpoint"),
		SQLitePath: cmd.String("sqlite-path"),
	}
}

// session is one command's worth of backend, store and controller.
type session struct {
	be  backend.Backend
	st  *store.Store
	ctl *controller.Controller
}

// logNotifier routes controller notices to the log. The command's returned
// error is what the user sees, so notices stay at debug.
var logNotifier = controller.NotifierFunc(func(n controller.Notice) {
	entry := log.WithFields(log.Fields{
		"level":    n.Level.String(),
		"op":       n.Op,
		"category": string(n.Category),
	})
	if n.Err != nil {
		entry = entry.WithError(n.Err)
	}
	entry.Debug(n.Message)
})

// newSession builds the backend selected by cmd's flags and a controller
// over it with category active. A nil notifier logs notices.
func newSession(ctx context.Context, cmd *cli.Command, category menu.Category, notifier controller.Notifier) (*session, error) {
	be, err := backend.New(ctx, BackendConfigFromCommand(cmd))
	if err != nil {
		return nil, err
	}
	log.Debugf("be: %v", be)

	if notifier == nil {
		notifier = logNotifier
	}

	st := store.New(category)
	ctl := controller.New(be, st, controller.Options{
		RejectDuplicates: !cmd.Bool("allow-duplicates"),
		Notifier:         notifier,
	})

	return &session{be: be, st: st, ctl: ctl}, nil
}

func (s *session) Close() {
	if err := s.be.Close(); err != nil {
		log.WithError(err).Debug("closing backend")
	}
}

// categoryArg parses the positional arg at idx as a category. Missing args
// fall back to def; an empty def makes the arg required.
func categoryArg(cmd *cli.Command, idx int, def menu.Category) (menu.Category, error) {
	raw := cmd.Args().Get(idx)
	if raw == "" {
		if def == "" {
			return "", fmt.Errorf("a category is required (one of %s)", categoryList())
		}
		return def, nil
	}
	c, err := menu.ParseCategory(raw)
	if err != nil {
		return "", fmt.Errorf("%w (want one of %s)", err, categoryList())
	}
	return c, nil
}

// requireArgs returns the positional args from idx on, or an error naming
// what is missing.
func requireArgs(cmd *cli.Command, idx int, what string) ([]string, error) {
	args := cmd.Args().Slice()
	if len(args) <= idx {
		return nil, fmt.Errorf("%s is required", what)
	}
	return args[idx:], nil
}

func categoryList() string {
	names := make([]string, len(menu.Categories))
	for i, c := range menu.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// writer returns where command output goes.
func writer(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// printActive renders the controller's active category with the output flags.
func printActive(cmd *cli.Command, ctl *controller.Controller) error {
	return output.Spit(ctl.View(), output.OptionsFromCommand(cmd), writer(cmd))
}

// MenuCommandBuilder constructs a cli.Command for the menu subcommands using a
// consistent pattern: metadata, backend flags, global output flags and the
// global validator.
type MenuCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	NoOutput  bool
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (mcb *MenuCommandBuilder) Build() *cli.Command {
	flags := append(mcb.Flags, NewBackendFlags(mcb.Name)...)
	if !mcb.NoOutput {
		flags = append(flags, NewGlobalFlags(mcb.Name)...)
	}

	return &cli.Command{
		Name:      mcb.Name,
		Usage:     mcb.Usage,
		UsageText: mcb.UsageText,
		Metadata: map[string]any{
			"meta": mcb.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			m := GetMeta(c)
			if len(m.Args) > 1 {
				log.Debugf("Executing action for %v", m.Args[1:])
			}
			return mcb.Action(ctx, c)
		},
	}
}
