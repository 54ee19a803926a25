// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/matt-FFFFFF/tease/internal/config"
	"github.com/matt-FFFFFF/tease/internal/supervise"
	"github.com/urfave/cli/v3"
)

const (
	configFlag   = "config"
	intervalFlag = "interval"
	windowFlag   = "window"
	widthFlag    = "width"
	quietFlag    = "quiet"
	cliExitStr   = ""
)

// RootCmd is the command instance wired into the binary's entry point.
var RootCmd = NewRootCmd()

// flagsTakingValue lists the flag tokens that consume the argument after
// them, so SplitArgs does not mistake a flag value for the child command.
// The "--flag=value" forms carry their value inline and need no entry.
var flagsTakingValue = map[string]struct{}{
	"-c": {}, "--" + configFlag: {},
	"-i": {}, "--" + intervalFlag: {},
	"-w": {}, "--" + windowFlag: {},
	"--" + widthFlag: {},
}

// SplitArgs inserts the "--" terminator in front of the child command, so
// that the child's own flags reach the child verbatim instead of being
// parsed here. args is the full argument vector including the program
// name. An explicit "--" is respected as-is.
func SplitArgs(args []string) []string {
	for i := 1; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			return args
		}

		if strings.HasPrefix(arg, "-") {
			if _, ok := flagsTakingValue[arg]; ok {
				i++
			}

			continue
		}

		return slices.Concat(args[:i], []string{"--"}, args[i:])
	}

	return args
}

// NewRootCmd returns the root command for the CLI. There are no
// subcommands: the tool is a single verb. Callers must pre-process the
// argument vector with SplitArgs before running it.
func NewRootCmd() *cli.Command {
	return &cli.Command{
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Name:      "tease",
		Description: `Tease runs a noisy command while showing only the most recent line of its
output, overwritten in place on a single terminal line. On success the final
line is left on screen; on failure the entire captured output is printed so
the error can be diagnosed. Both output streams of the child are captured
into one scratch file, which is always deleted before tease returns.`,
		Usage:     "Run a command while showing only the latest line of its output",
		ArgsUsage: "COMMAND [ARGS...]",
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      configFlag,
				Aliases:   []string{"c"},
				Usage:     "Path to the settings file",
				TakesFile: true,
				OnlyOnce:  true,
			},
			&cli.DurationFlag{
				Name:     intervalFlag,
				Aliases:  []string{"i"},
				Usage:    "Wait between checks for new output",
				OnlyOnce: true,
			},
			&cli.IntFlag{
				Name:     windowFlag,
				Aliases:  []string{"w"},
				Usage:    "Size in bytes of the trailing window the tail line is extracted from",
				OnlyOnce: true,
			},
			&cli.IntFlag{
				Name:     widthFlag,
				Usage:    "Maximum rendered width of the tail line, defaults to the terminal width",
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:        quietFlag,
				Aliases:     []string{"q"},
				Usage:       "Do not render the live tail, still print the captured output on failure",
				Value:       false,
				DefaultText: "false",
				TakesFile:   false,
				OnlyOnce:    true,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return cli.Exit("No command given!", supervise.FatalExitCode)
	}

	settings, err := config.Load(ctx, cmd.String(configFlag))
	if err != nil {
		return cli.Exit("Could not load settings: "+err.Error(), supervise.FatalExitCode)
	}

	if cmd.IsSet(intervalFlag) {
		settings.PollInterval = cmd.Duration(intervalFlag)
	}

	if cmd.IsSet(windowFlag) {
		settings.WindowBytes = cmd.Int(windowFlag)
	}

	if cmd.IsSet(widthFlag) {
		settings.MaxTailWidth = cmd.Int(widthFlag)
	}

	sup := &supervise.Supervisor{
		Command:      args[0],
		Args:         args[1:],
		PollInterval: settings.PollInterval,
		WindowBytes:  settings.WindowBytes,
		MaxTailWidth: settings.MaxTailWidth,
		ScratchDir:   settings.ScratchDir,
		Quiet:        cmd.Bool(quietFlag),
	}

	if code := sup.Run(ctx); code != 0 {
		return cli.Exit(cliExitStr, code)
	}

	return nil
}
