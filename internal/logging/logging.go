// Package logging maps the tool's verbosity levels onto slog and builds the
// process logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// VerbosityLevel defines the logging verbosity.
type VerbosityLevel int

const (
	Verbose VerbosityLevel = iota
	Info
	Warning
	Error
	Off
)

var levelNames = map[VerbosityLevel]string{
	Verbose: "Verbose",
	Info:    "Info",
	Warning: "Warning",
	Error:   "Error",
	Off:     "Off",
}

func (v VerbosityLevel) String() string {
	if name, ok := levelNames[v]; ok {
		return name
	}
	return fmt.Sprintf("VerbosityLevel(%d)", int(v))
}

// ParseVerbosity accepts the level names case-insensitively, plus the slog
// spellings "debug" and "warn".
func ParseVerbosity(s string) (VerbosityLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verbose", "debug":
		return Verbose, nil
	case "info", "":
		return Info, nil
	case "warning", "warn":
		return Warning, nil
	case "error":
		return Error, nil
	case "off":
		return Off, nil
	}
	return Info, fmt.Errorf("invalid verbosity level %q: valid levels are Verbose, Info, Warning, Error, Off", s)
}

// SlogLevel returns the minimum slog level that is still printed.
func (v VerbosityLevel) SlogLevel() slog.Level {
	switch v {
	case Verbose:
		return slog.LevelDebug
	case Warning:
		return slog.LevelWarn
	case Error:
		return slog.LevelError
	case Off:
		return slog.LevelError + 4
	default:
		return slog.LevelInfo
	}
}

// FileConfig configures the rotating log file. An empty Filename disables it.
type FileConfig struct {
	Filename   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// Config configures New.
type Config struct {
	Verbosity VerbosityLevel
	// Console receives human readable log lines; nil means stderr.
	Console io.Writer
	File    FileConfig
}

// New builds a logger from cfg and installs it as the slog default. The
// returned close function flushes and closes the log file, if any.
func New(cfg Config) (*slog.Logger, func() error) {
	if cfg.Verbosity == Off {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		slog.SetDefault(logger)
		return logger, func() error { return nil }
	}

	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}
	writer := console
	closeFn := func() error { return nil }

	if cfg.File.Filename != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File.Filename,
			MaxSize:    cfg.File.MaxSize,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAge,
			Compress:   cfg.File.Compress,
		}
		writer = io.MultiWriter(console, file)
		closeFn = file.Close
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: cfg.Verbosity.SlogLevel(),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, closeFn
}
