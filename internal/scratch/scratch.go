// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package scratch owns the temporary file that the child command writes its
// combined output into. The file is created with owner-only permissions and
// an unpredictable suffix, in the current working directory by default,
// falling back to the system temp directory if that is not writable.
package scratch

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/tease/internal/ctxlog"
)

const filePattern = "tmp.tease.*"

// ErrNoWritableLocation is returned when neither the primary nor the
// fallback location could hold the scratch file.
var ErrNoWritableLocation = errors.New("could not create a scratch file in any location")

// TempDirPath returns the fallback directory for the scratch file.
// It is a variable so tests can substitute it.
var TempDirPath = os.TempDir

// File is a scratch file owned exclusively by this process.
// Exactly one exists per run and it is removed exactly once,
// whichever exit path is taken.
type File struct {
	f    *os.File
	path string
}

// Create makes a uniquely named scratch file in primaryDir, or in the
// system temp directory if primaryDir is not writable. An empty primaryDir
// means the current working directory. If both locations fail, the returned
// error names every directory that was tried.
func Create(ctx context.Context, primaryDir string) (*File, error) {
	if primaryDir == "" {
		primaryDir = "."
	}

	f, primaryErr := os.CreateTemp(primaryDir, filePattern)
	if primaryErr == nil {
		ctxlog.Debug(ctx, "created scratch file", "path", f.Name())

		return &File{f: f, path: f.Name()}, nil
	}

	fallbackDir := TempDirPath()
	ctxlog.Warn(ctx, "could not create a scratch file in the primary location, trying the temp directory",
		"primary", primaryDir,
		"fallback", fallbackDir,
		"error", primaryErr)

	f, fallbackErr := os.CreateTemp(fallbackDir, filePattern)
	if fallbackErr != nil {
		return nil, errors.Join(
			ErrNoWritableLocation,
			fmt.Errorf("tried %q and %q", primaryDir, fallbackDir),
			primaryErr,
			fallbackErr,
		)
	}

	ctxlog.Debug(ctx, "created scratch file in fallback location", "path", f.Name())

	return &File{f: f, path: f.Name()}, nil
}

// Handle returns the open file. The same descriptor is handed to the child
// for writing and used by the parent for reading, so readers must use
// offset-addressed reads and never move the shared file offset.
func (s *File) Handle() *os.File {
	return s.f
}

// Path returns the scratch file's path.
func (s *File) Path() string {
	return s.path
}

// Cleanup closes and removes the scratch file. Failures are warned about
// with the path so the user can delete the file manually; they never affect
// the run's exit code. The returned error aggregates any failures for
// callers that want to inspect them.
func (s *File) Cleanup(ctx context.Context) error {
	var errs error

	if err := s.f.Close(); err != nil {
		errs = multierror.Append(errs, err)

		ctxlog.Warn(ctx, "could not close the scratch file, but that should be fine", "error", err)
	}

	if err := os.Remove(s.path); err != nil {
		errs = multierror.Append(errs, err)

		ctxlog.Warn(ctx, "deleting the scratch file failed, please delete it manually",
			"path", s.path,
			"error", err)
	}

	return errs
}
