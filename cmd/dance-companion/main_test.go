package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/dance-companion/internal/config"
	"github.com/teslashibe/dance-companion/pkg/video"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("dance-companion", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dance.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestParseFlags(t *testing.T) {
	fileWithInput := writeConfig(t, `{"input": "a.mp4", "style": {"offset": 80, "radius": 5}, "web": {"port": 9001}}`)
	fileWithWebcam := writeConfig(t, `{"webcam": 1}`)

	tests := []struct {
		name   string
		env    map[string]string
		args   []string
		want   error
		assert func(t *testing.T, cfg config.Config)
	}{
		{
			name: "file values kept when flags unset",
			args: []string{"--config", fileWithInput},
			assert: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, "a.mp4", cfg.Input)
				assert.Equal(t, 80, cfg.Style.Offset)
				assert.Equal(t, 5, cfg.Style.Radius)
				assert.Equal(t, 9001, cfg.Web.Port)
			},
		},
		{
			name: "explicit flags override file",
			args: []string{"--config", fileWithInput, "--offset", "0", "--port", "8100", "--debug"},
			assert: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, 0, cfg.Style.Offset)
				assert.Equal(t, 5, cfg.Style.Radius)
				assert.Equal(t, 8100, cfg.Web.Port)
				assert.Equal(t, "debug", cfg.LogLevel)
			},
		},
		{
			name: "webcam flag wins over file input",
			args: []string{"--config", fileWithInput, "--webcam", "0"},
			assert: func(t *testing.T, cfg config.Config) {
				assert.Empty(t, cfg.Input)
				assert.Equal(t, 0, cfg.Webcam)
				assert.Equal(t, video.Webcam(0), cfg.ToSource())
			},
		},
		{
			name: "input flag wins over file webcam",
			args: []string{"--config", fileWithWebcam, "--input", "b.mp4"},
			assert: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, "b.mp4", cfg.Input)
				assert.Equal(t, video.NoDevice, cfg.Webcam)
			},
		},
		{
			name: "webcam flag wins over env input",
			env:  map[string]string{"DANCE_INPUT": "env.mp4"},
			args: []string{"--webcam", "2"},
			assert: func(t *testing.T, cfg config.Config) {
				assert.Empty(t, cfg.Input)
				assert.Equal(t, 2, cfg.Webcam)
			},
		},
		{
			name: "env source used without flags",
			env:  map[string]string{"DANCE_INPUT": "env.mp4"},
			args: nil,
			assert: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, "env.mp4", cfg.Input)
			},
		},
		{
			name: "both source flags conflict",
			args: []string{"--input", "a.mp4", "--webcam", "0"},
			want: config.ErrSourceConflict,
		},
		{
			name: "no source",
			args: []string{"--offset", "10"},
			want: config.ErrSourceRequired,
		},
		{
			name: "file with both sources and no flags conflicts",
			args: []string{"--config", writeConfig(t, `{"input": "a.mp4", "webcam": 0}`)},
			want: config.ErrSourceConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := parseFlags(newFlagSet(), tc.args)
			if tc.want != nil {
				require.ErrorIs(t, err, tc.want)
				return
			}
			require.NoError(t, err)
			tc.assert(t, cfg)
		})
	}
}

func TestParseFlags_BadInput(t *testing.T) {
	_, err := parseFlags(newFlagSet(), []string{"--webcam", "front"})
	require.Error(t, err)

	_, err = parseFlags(newFlagSet(), []string{"--input", "a.mp4", "--config", "/nonexistent/dance.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}
