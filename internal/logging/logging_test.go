package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerbosity(t *testing.T) {
	tests := []struct {
		in      string
		want    VerbosityLevel
		wantErr bool
	}{
		{"Verbose", Verbose, false},
		{"debug", Verbose, false},
		{"INFO", Info, false},
		{"", Info, false},
		{"warning", Warning, false},
		{"warn", Warning, false},
		{"Error", Error, false},
		{"off", Off, false},
		{"loud", Info, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVerbosity(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerbosityLevel_String(t *testing.T) {
	assert.Equal(t, "Warning", Warning.String())
	assert.Equal(t, "VerbosityLevel(9)", VerbosityLevel(9).String())
}

func TestNew_FiltersByVerbosity(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var out bytes.Buffer
	logger, closeFn := New(Config{Verbosity: Warning, Console: &out})
	defer closeFn()

	logger.Info("hidden")
	slog.Warn("shown", "file", "a.js")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), `msg=shown file=a.js`)
	assert.NotContains(t, out.String(), "time=")
}

func TestNew_Off(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var out bytes.Buffer
	_, closeFn := New(Config{Verbosity: Off, Console: &out})
	slog.Error("nothing")
	require.NoError(t, closeFn())
	assert.Empty(t, out.String())
}

func TestNew_WritesLogFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	path := filepath.Join(t.TempDir(), "remap.log")
	var out bytes.Buffer
	_, closeFn := New(Config{Verbosity: Verbose, Console: &out, File: FileConfig{Filename: path, MaxSize: 1}})
	slog.Debug("to both")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
	assert.Contains(t, out.String(), "to both")
}
