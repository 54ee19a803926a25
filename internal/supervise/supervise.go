// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package supervise owns the run: it creates the scratch file, starts the
// child, polls for new output, drives the presenter, and propagates the
// child's exit code. The scratch file is cleaned up on every path that
// created it, including pre-spawn failures.
package supervise

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/matt-FFFFFF/tease/internal/config"
	"github.com/matt-FFFFFF/tease/internal/ctxlog"
	"github.com/matt-FFFFFF/tease/internal/render"
	"github.com/matt-FFFFFF/tease/internal/runner"
	"github.com/matt-FFFFFF/tease/internal/scratch"
	"github.com/matt-FFFFFF/tease/internal/signalbroker"
	"github.com/matt-FFFFFF/tease/internal/tailfile"
	"github.com/matt-FFFFFF/tease/internal/tty"
)

// FatalExitCode is returned for failures that happen before the child has
// an exit code of its own: no writable scratch location, unknown command,
// spawn or wait failure.
const FatalExitCode = 1

// Supervisor runs one child command to completion while tailing its output.
// The zero values of the tuning fields fall back to the defaults.
type Supervisor struct {
	Command      string
	Args         []string
	PollInterval time.Duration
	WindowBytes  int
	MaxTailWidth int
	ScratchDir   string
	Quiet        bool

	out   io.Writer      // defaults to os.Stdout
	sigCh chan os.Signal // allows mocking in test
}

// Run executes the child and returns the exit code this process should
// carry: the child's own code, 128+signal if the child was signaled, or
// FatalExitCode for pre-run failures.
func (s *Supervisor) Run(ctx context.Context) int {
	logger := ctxlog.Logger(ctx).With("command", s.Command)

	if s.PollInterval <= 0 {
		s.PollInterval = config.DefaultPollInterval
	}

	if s.out == nil {
		s.out = os.Stdout
	}

	if s.sigCh == nil {
		s.sigCh = signalbroker.New(ctx)
	}

	sf, err := scratch.Create(ctx, s.ScratchDir)
	if err != nil {
		logger.Error("could not create a scratch file", "error", err)

		return FatalExitCode
	}

	// Cleanup is the single exit gate. It warns on failure and never
	// changes the exit code.
	defer func() {
		_ = sf.Cleanup(ctx)
	}()

	child, err := runner.Start(ctx, s.Command, s.Args, sf.Handle())
	if err != nil {
		if errors.Is(err, runner.ErrUnknownCommand) {
			logger.Error("unknown command", "command", s.Command)
		} else {
			logger.Error("could not start the process", "error", err)
		}

		return FatalExitCode
	}

	maxWidth := s.MaxTailWidth
	if maxWidth <= 0 {
		if f, ok := s.out.(*os.File); ok {
			maxWidth = tty.Width(f)
		}
	}

	presenter := render.New(s.out, maxWidth)
	state := tailfile.NewState(s.WindowBytes)

	ticker := time.NewTicker(s.PollInterval)
	defer ticker.Stop()

	signalsSeen := make(map[os.Signal]struct{})
	ctxDone := ctx.Done()

	for {
		select {
		case <-ticker.C:
			s.pollOnce(ctx, sf, state, presenter)

		case sig := <-s.sigCh:
			// First signal of a type is forwarded so the child can shut
			// down on its own terms. A repeat kills it.
			if _, ok := signalsSeen[sig]; ok {
				logger.Info("received duplicate signal, killing process", "signal", sig.String())
				child.Kill(ctx)

				continue
			}

			signalsSeen[sig] = struct{}{}

			logger.Info("received signal, forwarding to child", "signal", sig.String())

			if err := child.Signal(sig); err != nil {
				logger.Warn("failed to forward signal", "signal", sig.String(), "error", err)
			}

		case <-ctxDone:
			logger.Info("context done, killing process")
			child.Kill(ctx)

			ctxDone = nil

		case outcome := <-child.Done():
			return s.finish(ctx, outcome, sf, state, presenter)
		}
	}
}

// pollOnce reads any newly appended bytes and redraws the tail line.
// Transient stat/read failures are warned about and retried on the next
// interval; the state is not advanced on failure.
func (s *Supervisor) pollOnce(ctx context.Context, sf *scratch.File, state *tailfile.State, presenter *render.Presenter) {
	frag, ok, err := tailfile.Poll(sf.Handle(), state)
	if err != nil {
		ctxlog.Warn(ctx, "tail poll failed, will retry", "error", err)

		return
	}

	if !ok || s.Quiet {
		return
	}

	if err := presenter.Tail(frag); err != nil {
		ctxlog.Warn(ctx, "could not render the tail line", "error", err)
	}
}

func (s *Supervisor) finish(ctx context.Context, outcome runner.Outcome, sf *scratch.File, state *tailfile.State, presenter *render.Presenter) int {
	logger := ctxlog.Logger(ctx).With("command", s.Command)

	if outcome.Err != nil {
		logger.Error("could not determine the child's fate", "error", outcome.Err)

		return FatalExitCode
	}

	// Catch anything written between the last tick and the exit.
	s.pollOnce(ctx, sf, state, presenter)

	code := runner.ExitCode(outcome.State)
	logger.Debug("process finished", "exitCode", code)

	if code == 0 {
		if err := presenter.Finalize(); err != nil {
			logger.Warn("could not finalize the tail line", "error", err)
		}

		return 0
	}

	if err := presenter.Dump(sf.Handle()); err != nil {
		logger.Warn("could not stream the captured output", "error", err)
	}

	return code
}
