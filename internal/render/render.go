// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package render draws the live tail line and, on failure, the full
// captured output. The terminal protocol is deliberately small: a carriage
// return plus erase-to-end-of-line before each redraw, and nothing else.
// An ANSI-capable terminal is assumed.
package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

const (
	// clearLine returns the cursor to column 0 and erases to the end of
	// the line, so repeated tail writes overwrite in place.
	clearLine = "\r\x1b[K"

	// dumpChunkBytes bounds the buffer used when streaming the full
	// captured output.
	dumpChunkBytes = 8 * 1024

	ellipsis = "..."
)

// ErrDumpInterrupted is returned when streaming the captured output fails
// partway. Bytes already streamed remain on screen.
var ErrDumpInterrupted = errors.New("dump of captured output interrupted")

// Presenter renders a single always-overwritten line to w.
type Presenter struct {
	w        io.Writer
	maxWidth int
	rendered bool
}

// New creates a Presenter writing to w. Fragments longer than maxWidth are
// truncated with a trailing ellipsis; maxWidth <= 0 disables truncation.
func New(w io.Writer, maxWidth int) *Presenter {
	return &Presenter{w: w, maxWidth: maxWidth}
}

// Tail clears the current line and writes fragment without a trailing
// newline, so the next call overwrites it.
func (p *Presenter) Tail(fragment string) error {
	if p.maxWidth > 0 && len(fragment) > p.maxWidth {
		if p.maxWidth > len(ellipsis) {
			fragment = truncate(fragment, p.maxWidth-len(ellipsis)) + ellipsis
		} else {
			fragment = truncate(fragment, p.maxWidth)
		}
	}

	p.rendered = true

	_, err := fmt.Fprintf(p.w, "%s%s", clearLine, fragment)

	return err
}

// truncate cuts s to at most n bytes without splitting a rune, backing up
// to the previous rune boundary if the cut lands inside one. n must be
// less than len(s).
func truncate(s string, n int) string {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n]
}

// Rendered reports whether any fragment has been shown.
func (p *Presenter) Rendered() bool {
	return p.rendered
}

// Finalize emits a newline so the last tail line survives in scrollback.
// It emits nothing if no fragment was ever rendered.
func (p *Presenter) Finalize() error {
	if !p.rendered {
		return nil
	}

	_, err := io.WriteString(p.w, "\n")

	return err
}

// Dump clears the current line once, then streams the whole file from its
// start in bounded chunks, preserving byte order. A mid-stream read failure
// aborts further streaming.
func (p *Presenter) Dump(f *os.File) error {
	if _, err := io.WriteString(p.w, clearLine); err != nil {
		return errors.Join(ErrDumpInterrupted, err)
	}

	buf := make([]byte, dumpChunkBytes)

	var off int64

	for {
		n, err := f.ReadAt(buf, off)
		if n > 0 {
			if _, werr := p.w.Write(buf[:n]); werr != nil {
				return errors.Join(ErrDumpInterrupted, werr)
			}

			off += int64(n)
		}

		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return errors.Join(ErrDumpInterrupted, err)
		}
	}
}
