// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tty answers questions about the terminal attached to a file:
// whether it is one, how wide it is, and whether colored output is wanted.
package tty

import (
	"os"

	"golang.org/x/term"
)

const (
	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces color output.
	ForceColor = "FORCE_COLOR"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Width returns the column count of the terminal attached to f,
// or 0 if f is not a terminal or the size cannot be determined.
func Width(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}

	return w
}

// ColorEnabled reports whether colored output should be written to f.
//
// It is false if the NO_COLOR environment variable is set, true if the
// FORCE_COLOR environment variable is set, and otherwise true only when
// f is a terminal.
func ColorEnabled(f *os.File) bool {
	if nc := os.Getenv(NoColor); nc != "" {
		return false
	}

	if fc := os.Getenv(ForceColor); fc != "" {
		return true
	}

	return IsTerminal(f)
}
