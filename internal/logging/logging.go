// Package logging builds the application slog logger.
// Logs never go to stdout, which carries command output.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	FormatJSON = "json"
	FormatText = "text"

	OutputStderr = "stderr"
	OutputFile   = "file"
)

// Config selects level, format and destination.
type Config struct {
	Level      string
	Format     string
	Output     string
	FilePath   string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// New creates a logger writing to stderr or to a rotated file.
func New(config Config) *slog.Logger {
	return NewWithWriter(config, writerFor(config))
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(config Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(config.Level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}

	var handler slog.Handler
	if config.Format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func writerFor(config Config) io.Writer {
	if config.Output != OutputFile {
		return os.Stderr
	}
	if config.FilePath == "" {
		fmt.Fprintln(os.Stderr, "WARNING: log output=file without a file path, using stderr")
		return os.Stderr
	}
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: create log directory: %v, using stderr\n", err)
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   config.FilePath,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
	}
}
