// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runner starts the child command with both of its output streams
// redirected into the scratch file. Merging stdout and stderr into one sink
// loses stream attribution; that is a deliberate trade for a single source
// of truth for the tail.
package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"slices"
	"syscall"

	"github.com/matt-FFFFFF/tease/internal/ctxlog"
)

var (
	// ErrUnknownCommand is returned when the command cannot be found on the PATH.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
)

// Outcome is the terminal result of the child process. It is produced
// exactly once. A non-nil Err means the wait itself failed and the child's
// state is unknowable.
type Outcome struct {
	State *os.ProcessState
	Err   error
}

// Child is a started process. Its outcome is delivered on Done, which lets
// the supervisor check liveness without blocking.
type Child struct {
	ps   *os.Process
	done chan Outcome
}

// Start resolves name via the PATH search and spawns it with stdout and
// stderr both duplicated onto sink's descriptor. Stdin is passed through
// and the environment is inherited unmodified. A command that cannot be
// found reports ErrUnknownCommand; any other start failure reports
// ErrCouldNotStartProcess.
func Start(ctx context.Context, name string, args []string, sink *os.File) (*Child, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, errors.Join(ErrUnknownCommand, err)
		}

		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	ps, err := os.StartProcess(path, slices.Concat([]string{name}, args), &os.ProcAttr{
		Env:   os.Environ(),
		Files: []*os.File{os.Stdin, sink, sink},
	})
	if err != nil {
		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	ctxlog.Debug(ctx, "process started", "pid", ps.Pid, "path", path)

	c := &Child{
		ps:   ps,
		done: make(chan Outcome, 1),
	}

	go func() {
		state, waitErr := ps.Wait()
		c.done <- Outcome{State: state, Err: waitErr}
	}()

	return c, nil
}

// Done delivers the child's outcome. The channel is buffered, so the wait
// goroutine never leaks even if the outcome is never received.
func (c *Child) Done() <-chan Outcome {
	return c.done
}

// Pid returns the child's process id.
func (c *Child) Pid() int {
	return c.ps.Pid
}

// Signal forwards sig to the child.
func (c *Child) Signal(sig os.Signal) error {
	return c.ps.Signal(sig) //nolint:wrapcheck
}

// Kill forcefully terminates the child. A child that has already exited is
// not an error.
func (c *Child) Kill(ctx context.Context) {
	if err := c.ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Debug(ctx, "process already done", "pid", c.ps.Pid)
			return
		}

		ctxlog.Error(ctx, "process kill error", "pid", c.ps.Pid, "error", err)

		return
	}

	ctxlog.Info(ctx, "process killed", "pid", c.ps.Pid)
}

// ExitCode maps the child's process state to this program's exit code:
// the child's own code on a normal exit, 128 plus the signal number when
// the child was killed by a signal.
func ExitCode(state *os.ProcessState) int {
	if state == nil {
		return 1
	}

	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}

	return state.ExitCode()
}
