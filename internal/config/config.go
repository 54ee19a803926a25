// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads the optional settings file. Settings tune the poll
// loop; they are not required for normal operation and every value has a
// default. Flags override file values.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/tease/internal/ctxlog"
	"github.com/matt-FFFFFF/tease/internal/tailfile"
	"github.com/spf13/afero"
)

const (
	// DefaultFileName is the settings file looked for in the current
	// working directory when no explicit path is given.
	DefaultFileName = ".tease.yaml"
	// EnvConfigPath names an environment variable holding the settings
	// file path. A --config flag takes precedence over it.
	EnvConfigPath = "TEASE_CONFIG"
	// DefaultPollInterval is the wait between successive checks of the
	// scratch file and the child's liveness.
	DefaultPollInterval = 30 * time.Millisecond
)

// FsFactory is a function that returns an afero filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

var (
	// ErrReadFile is returned when the settings file cannot be read.
	ErrReadFile = errors.New("failed to read settings file")
	// ErrParse is returned when the settings file is not valid YAML.
	ErrParse = errors.New("failed to parse settings file")
	// ErrInvalidSetting is returned when a setting has a nonsensical value.
	ErrInvalidSetting = errors.New("invalid setting")
)

// Settings are the resolved tuning values for a run.
type Settings struct {
	PollInterval time.Duration
	WindowBytes  int
	MaxTailWidth int
	ScratchDir   string
}

type fileSettings struct {
	PollInterval string `yaml:"poll_interval"`
	WindowBytes  int    `yaml:"window_bytes"`
	MaxTailWidth int    `yaml:"max_tail_width"`
	ScratchDir   string `yaml:"scratch_dir"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		PollInterval: DefaultPollInterval,
		WindowBytes:  tailfile.DefaultWindowBytes,
	}
}

// Load resolves settings from the file at path, from the file named by
// TEASE_CONFIG, or from .tease.yaml in the current directory, in that order
// of preference. A missing file is only an error when the path was given
// explicitly (by argument or environment).
func Load(ctx context.Context, path string) (Settings, error) {
	s := Default()
	fs := FsFactory()

	explicit := path != ""
	if !explicit {
		if env := os.Getenv(EnvConfigPath); env != "" {
			path = env
			explicit = true
		} else {
			path = DefaultFileName
		}
	}

	b, err := afero.ReadFile(fs, path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return s, nil
		}

		return s, errors.Join(ErrReadFile, err)
	}

	var f fileSettings
	if err := yaml.Unmarshal(b, &f); err != nil {
		return s, errors.Join(ErrParse, err)
	}

	if f.PollInterval != "" {
		d, err := time.ParseDuration(f.PollInterval)
		if err != nil {
			return s, errors.Join(ErrInvalidSetting, fmt.Errorf("poll_interval: %w", err))
		}

		if d <= 0 {
			return s, errors.Join(ErrInvalidSetting, fmt.Errorf("poll_interval must be positive, got %s", d))
		}

		s.PollInterval = d
	}

	if f.WindowBytes < 0 {
		return s, errors.Join(ErrInvalidSetting, fmt.Errorf("window_bytes must not be negative, got %d", f.WindowBytes))
	}

	if f.WindowBytes > 0 {
		s.WindowBytes = f.WindowBytes
	}

	if f.MaxTailWidth < 0 {
		return s, errors.Join(ErrInvalidSetting, fmt.Errorf("max_tail_width must not be negative, got %d", f.MaxTailWidth))
	}

	if f.MaxTailWidth > 0 {
		s.MaxTailWidth = f.MaxTailWidth
	}

	if f.ScratchDir != "" {
		s.ScratchDir = f.ScratchDir
	}

	ctxlog.Debug(ctx, "loaded settings", "path", path)

	return s, nil
}
