// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package render

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTail_OverwritesInPlace(t *testing.T) {
	var buf bytes.Buffer

	p := New(&buf, 0)

	require.NoError(t, p.Tail("one"))
	require.NoError(t, p.Tail("two"))

	assert.Equal(t, "\r\x1b[Kone\r\x1b[Ktwo", buf.String())
	assert.True(t, p.Rendered())
}

func TestTail_Truncation(t *testing.T) {
	tests := []struct {
		name     string
		maxWidth int
		fragment string
		want     string
	}{
		{
			name:     "no truncation when width disabled",
			maxWidth: 0,
			fragment: "a long fragment",
			want:     "a long fragment",
		},
		{
			name:     "no truncation when it fits",
			maxWidth: 20,
			fragment: "fits",
			want:     "fits",
		},
		{
			name:     "truncated with ellipsis",
			maxWidth: 10,
			fragment: "0123456789abcdef",
			want:     "0123456...",
		},
		{
			name:     "tiny width truncates hard",
			maxWidth: 2,
			fragment: "abcdef",
			want:     "ab",
		},
		{
			// The cut would land on the second byte of the é; it must back
			// up to the rune boundary instead of emitting a partial rune.
			name:     "multi-byte rune not split by ellipsis cut",
			maxWidth: 10,
			fragment: "abcdeféghijk",
			want:     "abcdef...",
		},
		{
			name:     "multi-byte rune not split by hard cut",
			maxWidth: 2,
			fragment: "aé",
			want:     "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			p := New(&buf, tt.maxWidth)
			require.NoError(t, p.Tail(tt.fragment))

			assert.Equal(t, "\r\x1b[K"+tt.want, buf.String())
		})
	}
}

func TestFinalize_OnlyAfterRender(t *testing.T) {
	var buf bytes.Buffer

	p := New(&buf, 0)

	require.NoError(t, p.Finalize())
	assert.Empty(t, buf.String(), "finalize must emit nothing when no fragment was shown")

	require.NoError(t, p.Tail("done"))
	require.NoError(t, p.Finalize())
	assert.True(t, strings.HasSuffix(buf.String(), "done\n"),
		"the final tail line must be preserved with exactly one trailing newline")
}

func TestDump_StreamsWholeFile(t *testing.T) {
	// Larger than one chunk so the loop runs more than once.
	content := strings.Repeat("0123456789abcdef\n", 1500)

	f, err := os.CreateTemp(t.TempDir(), "dump-*")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = f.Close()
	})

	_, err = f.WriteString(content)
	require.NoError(t, err)

	var buf bytes.Buffer

	p := New(&buf, 0)
	require.NoError(t, p.Dump(f))

	assert.Equal(t, "\r\x1b[K"+content, buf.String(), "dump must preserve byte order and clear the line once")
}

func TestDump_EmptyFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "dump-*")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = f.Close()
	})

	var buf bytes.Buffer

	p := New(&buf, 0)
	require.NoError(t, p.Dump(f))
	assert.Equal(t, "\r\x1b[K", buf.String())
}

func TestDump_ReadFailureAborts(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "dump-*")
	require.NoError(t, err)

	_, err = f.WriteString("data")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	var buf bytes.Buffer

	p := New(&buf, 0)
	err = p.Dump(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDumpInterrupted)
}
