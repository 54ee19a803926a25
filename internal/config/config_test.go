// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"testing"
	"time"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-FFFFFF/tease/internal/tailfile"
)

func stubFs(t *testing.T, files map[string]string) {
	t.Helper()

	memFs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(memFs, name, []byte(content), 0o644))
	}

	stub := gostub.Stub(&FsFactory, func() afero.Fs { return memFs })
	t.Cleanup(stub.Reset)
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	stubFs(t, nil)

	s, err := Load(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultPollInterval, s.PollInterval)
	assert.Equal(t, tailfile.DefaultWindowBytes, s.WindowBytes)
	assert.Zero(t, s.MaxTailWidth)
	assert.Empty(t, s.ScratchDir)
}

func TestLoad_DefaultFileInCwd(t *testing.T) {
	stubFs(t, map[string]string{
		DefaultFileName: "poll_interval: 100ms\nwindow_bytes: 1024\nmax_tail_width: 80\nscratch_dir: /var/tmp\n",
	})

	s, err := Load(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 100*time.Millisecond, s.PollInterval)
	assert.Equal(t, 1024, s.WindowBytes)
	assert.Equal(t, 80, s.MaxTailWidth)
	assert.Equal(t, "/var/tmp", s.ScratchDir)
}

func TestLoad_ExplicitPath(t *testing.T) {
	stubFs(t, map[string]string{
		"custom.yaml": "window_bytes: 2048\n",
	})

	s, err := Load(context.Background(), "custom.yaml")
	require.NoError(t, err)

	assert.Equal(t, 2048, s.WindowBytes)
	assert.Equal(t, DefaultPollInterval, s.PollInterval, "unset values keep their defaults")
}

func TestLoad_ExplicitPathMissingIsAnError(t *testing.T) {
	stubFs(t, nil)

	_, err := Load(context.Background(), "missing.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadFile)
}

func TestLoad_EnvVarPath(t *testing.T) {
	stubFs(t, map[string]string{
		"from-env.yaml": "window_bytes: 64\n",
	})
	t.Setenv(EnvConfigPath, "from-env.yaml")

	s, err := Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 64, s.WindowBytes)
}

func TestLoad_EnvVarPathMissingIsAnError(t *testing.T) {
	stubFs(t, nil)
	t.Setenv(EnvConfigPath, "missing.yaml")

	_, err := Load(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadFile)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "not yaml",
			content: "{:::",
			wantErr: ErrParse,
		},
		{
			name:    "unparsable interval",
			content: "poll_interval: soon\n",
			wantErr: ErrInvalidSetting,
		},
		{
			name:    "non-positive interval",
			content: "poll_interval: 0s\n",
			wantErr: ErrInvalidSetting,
		},
		{
			name:    "negative window",
			content: "window_bytes: -1\n",
			wantErr: ErrInvalidSetting,
		},
		{
			name:    "negative width",
			content: "max_tail_width: -2\n",
			wantErr: ErrInvalidSetting,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubFs(t, map[string]string{DefaultFileName: tt.content})

			_, err := Load(context.Background(), "")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
