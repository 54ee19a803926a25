// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main is the entry point for the tease command-line application.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/tease"
	"github.com/matt-FFFFFF/tease/cmd"
	"github.com/matt-FFFFFF/tease/internal/ctxlog"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	cmd.RootCmd.Version = fmt.Sprintf("%s (commit: %s)", tease.Version, tease.Commit)

	err := cmd.RootCmd.Run(ctx, cmd.SplitArgs(os.Args))
	if err != nil {
		ctxlog.Logger(ctx).Error("command failed", "error", err)
		os.Exit(1)
	}
}
