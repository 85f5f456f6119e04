// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/menuctl/internal/backend"
	"github.com/staranto/menuctl/internal/config"
)

func init() {
	cfg, _ = config.Load()
}

var cfg config.Type

// NewGlobalFlags returns the output flags every listing command shares.
// params[0] is the command name used to namespace config lookups.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: term.IsTerminal(int(os.Stdout.Fd())),
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
	}

	return
}

// NewBackendFlags returns the flags that select and configure the backend.
// Every value may come from the environment, the namespaced config key or
// the global config key, in that order.
func NewBackendFlags(ns string) []cli.Flag {
	str := func(name string, aliases []string, usage string, value string, envs ...string) *cli.StringFlag {
		f := &cli.StringFlag{
			Name:    name,
			Aliases: aliases,
			Usage:   usage,
			Sources: cli.NewValueSourceChain(),
			Value:   value,
		}
		for _, e := range envs {
			f.Sources.Chain = append(f.Sources.Chain, cli.EnvVar(e))
		}
		return NameSpacedValueChainFlagFromConfigFile(ns, cfg.Source, f)
	}

	backendFlag := str("backend", []string{"b"}, "where the menu lives", backend.TypeRemote, "MENUCTL_BACKEND")
	backendFlag.Validator = func(value string) error {
		return FlagValidators(value, JammedFlagValidator, BackendValidator)
	}

	return []cli.Flag{
		backendFlag,
		str("url", nil, "base url of the menu api, including /api", "", "MENUCTL_URL"),
		str("token", nil, "bearer token for the menu api", "", "MENUCTL_TOKEN"),
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "per-request timeout for the menu api (0 waits forever)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("MENUCTL_TIMEOUT"),
				yaml.YAML(ns+"."+"timeout", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("timeout", altsrc.StringSourcer(cfg.Source)),
			),
		},
		str("key", nil, "snapshot key for local backends", "", "MENUCTL_KEY"),
		str("data-dir", nil, "directory for file snapshots", "", "MENUCTL_DATA_DIR"),
		str("redis-url", nil, "redis url for the redis backend", "", "MENUCTL_REDIS_URL"),
		str("s3-bucket", nil, "bucket for the s3 backend", "", "MENUCTL_S3_BUCKET"),
		str("s3-prefix", nil, "object key prefix for the s3 backend", "", "MENUCTL_S3_PREFIX"),
		str("s3-region", nil, "region for the s3 backend", "", "AWS_REGION"),
		str("s3-profile", nil, "shared config profile for the s3 backend", "", "AWS_PROFILE"),
		str("s3-endpoint", nil, "custom endpoint for s3 compatible stores", "", "MENUCTL_S3_ENDPOINT"),
		str("sqlite-path", nil, "database file for the sqlite backend", "", "MENUCTL_SQLITE_PATH"),
		&cli.BoolFlag{
			Name:  "allow-duplicates",
			Usage: "allow more than one item with the same name in a category",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"allow-duplicates", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("allow-duplicates", altsrc.StringSourcer(cfg.Source)),
			),
			HideDefault: true,
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
