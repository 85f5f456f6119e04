// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/menuctl/internal/backend"
	"github.com/staranto/menuctl/internal/command"
	"github.com/staranto/menuctl/internal/config"
	"github.com/staranto/menuctl/internal/datadir"
	mylog "github.com/staranto/menuctl/internal/log"
	"github.com/staranto/menuctl/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	// Best-effort: pre-create the data directory when snapshots go there.
	if usesFileBackend(args) {
		if _, _, err := datadir.EnsureBaseDir(flagValue(args, "--data-dir")); err != nil {
			// Non-fatal: print to stderr and continue.
			fmt.Fprintln(os.Stderr, err)
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// mangleArguments expands an @set into the args stored at config key
// <cmd>.<set>. Without an @set, <cmd>.defaults is used if present. The
// expanded args go right after the subcommand so anything typed on the
// command line wins.
func mangleArguments(args []string) []string {
	// We know the first two args are going to be the executable and command.
	preamble := make([]string, 2)
	copy(preamble, args[:2])

	// Short-circuit for --help/-h. If help is requested, just keep the preamble
	// and add --help flag.
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return append(preamble, "--help")
		}
	}

	set := "defaults"
	rest := make([]string, 0, len(args)-2)
	for _, a := range args[2:] {
		if strings.HasPrefix(a, "@") && len(a) > 1 && set == "defaults" {
			set = a[1:]
			continue
		}
		rest = append(rest, a)
	}

	var setArgs []string
	stored, _ := config.GetStringSlice(args[1] + "." + set)
	for _, arg := range stored {
		setArgs = append(setArgs, strings.Fields(arg)...)
	}

	out := append(preamble, setArgs...)
	out = append(out, rest...)

	log.Debugf("set=%s, args=%v", set, out)
	return out
}

// usesFileBackend reports whether args, the environment or the config select
// the file backend.
func usesFileBackend(args []string) bool {
	if v := flagValue(args, "--backend", "-b"); v != "" {
		return v == backend.TypeFile
	}
	if v := os.Getenv("MENUCTL_BACKEND"); v != "" {
		return v == backend.TypeFile
	}
	if len(args) > 1 {
		if v, err := config.GetString(args[1] + ".backend"); err == nil {
			return v == backend.TypeFile
		}
	}
	v, _ := config.GetString("backend")
	return v == backend.TypeFile
}

// flagValue returns the last value given for any of names, accepting both
// "--name value" and "--name=value".
func flagValue(args []string, names ...string) (value string) {
	for i, a := range args {
		for _, n := range names {
			switch {
			case a == n && i+1 < len(args):
				value = args[i+1]
			case strings.HasPrefix(a, n+"="):
				value = strings.TrimPrefix(a, n+"=")
			}
		}
	}
	return
}
