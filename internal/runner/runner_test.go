// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"context"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sinkFile(t *testing.T) *os.File {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "sink-*")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = f.Close()
	})

	return f
}

func waitOutcome(t *testing.T, c *Child) Outcome {
	t.Helper()

	select {
	case o := <-c.Done():
		return o
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for the child")
		return Outcome{}
	}
}

func TestStart_RedirectsBothStreams(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping sh test on windows")
	}

	sink := sinkFile(t)
	ctx := context.Background()

	child, err := Start(ctx, "sh", []string{"-c", "echo to-stdout; echo to-stderr >&2"}, sink)
	require.NoError(t, err)
	assert.Positive(t, child.Pid())

	outcome := waitOutcome(t, child)
	require.NoError(t, outcome.Err)
	assert.Equal(t, 0, ExitCode(outcome.State))

	b, err := os.ReadFile(sink.Name())
	require.NoError(t, err)
	assert.Contains(t, string(b), "to-stdout")
	assert.Contains(t, string(b), "to-stderr")
}

func TestStart_UnknownCommand(t *testing.T) {
	sink := sinkFile(t)

	child, err := Start(context.Background(), "does-not-exist-xyz", nil, sink)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Nil(t, child)
}

func TestStart_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping sh test on windows")
	}

	sink := sinkFile(t)

	child, err := Start(context.Background(), "sh", []string{"-c", "echo working; exit 3"}, sink)
	require.NoError(t, err)

	outcome := waitOutcome(t, child)
	require.NoError(t, outcome.Err)
	assert.Equal(t, 3, ExitCode(outcome.State))

	b, err := os.ReadFile(sink.Name())
	require.NoError(t, err)
	assert.Contains(t, string(b), "working")
}

func TestExitCode_SignaledChild(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping signal test on windows")
	}

	sink := sinkFile(t)
	ctx := context.Background()

	child, err := Start(ctx, "sleep", []string{"10"}, sink)
	require.NoError(t, err)

	child.Kill(ctx)

	outcome := waitOutcome(t, child)
	require.NoError(t, outcome.Err)
	assert.Equal(t, 137, ExitCode(outcome.State), "expected 128+SIGKILL")
}

func TestExitCode_NilState(t *testing.T) {
	assert.Equal(t, 1, ExitCode(nil))
}
