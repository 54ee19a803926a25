// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tailfile

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// DefaultWindowBytes is the size of the trailing byte range read on each
// poll. A line longer than the window is shown truncated from the left;
// that is an accepted approximation, not corrected by growing the window.
const DefaultWindowBytes = 500

var (
	// ErrStatFile is returned when the scratch file cannot be stat'd.
	ErrStatFile = errors.New("could not stat the scratch file")
	// ErrReadFile is returned when the scratch file cannot be read.
	ErrReadFile = errors.New("could not read the scratch file")
)

// State tracks what has been observed of the growing file. The window
// buffer is owned by the state and reused across polls, so a single State
// must not be shared between concurrent supervisions.
type State struct {
	lastSize int64
	window   []byte
}

// NewState creates a poll state with the given window capacity.
// Non-positive values use DefaultWindowBytes.
func NewState(windowBytes int) *State {
	if windowBytes <= 0 {
		windowBytes = DefaultWindowBytes
	}

	return &State{window: make([]byte, windowBytes)}
}

// LastSize returns the last observed file size. It never decreases.
func (s *State) LastSize() int64 {
	return s.lastSize
}

// Poll checks f for appended bytes and extracts the trailing line fragment
// from a window over the end of the file. ok is false when nothing new was
// observed. The fragment is everything after the most recent newline in the
// window; a trailing newline is dropped first, since line-buffered children
// emit it before the next line has any content. If the window holds no
// newline at all the whole window is the fragment.
//
// On error the state is not advanced, so the same region is retried on the
// next poll. The file may grow between the stat and the read; the read is
// offset-addressed (never seeks) because the child shares the underlying
// file description and its writes track the shared offset.
func Poll(f *os.File, s *State) (fragment string, ok bool, err error) {
	fi, err := f.Stat()
	if err != nil {
		return "", false, errors.Join(ErrStatFile, err)
	}

	size := fi.Size()
	if size <= s.lastSize {
		return "", false, nil
	}

	n := int64(len(s.window))
	if size < n {
		n = size
	}

	m, err := f.ReadAt(s.window[:n], size-n)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, errors.Join(ErrReadFile, err)
	}

	b := s.window[:m]
	if len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}

	if len(b) > 0 && b[len(b)-1] == '\r' {
		b = b[:len(b)-1]
	}

	if i := bytes.LastIndexByte(b, '\n'); i >= 0 {
		b = b[i+1:]
	}

	s.lastSize = size

	return string(b), true, nil
}
