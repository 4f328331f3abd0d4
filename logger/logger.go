package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// Log is the process-wide logger. It writes to stdout at info level until Init runs.
var Log = slog.New(charmlog.NewWithOptions(os.Stdout, charmlog.Options{
	Level:           charmlog.InfoLevel,
	ReportTimestamp: true,
}))

type Config struct {
	Level string
	JSON  bool
	// File, when set, receives a copy of everything written to stdout.
	File string
}

// Init builds the logger described by cfg and installs it as Log.
// The returned closer releases the log file, if any.
func Init(cfg Config) (io.Closer, error) {
	var closer io.Closer = nopCloser{}
	var writer io.Writer = os.Stdout

	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writer = io.MultiWriter(os.Stdout, file)
		closer = file
	}

	Log = New(writer, cfg)
	slog.SetDefault(Log)
	return closer, nil
}

// New returns a logger writing to w without touching the global.
func New(w io.Writer, cfg Config) *slog.Logger {
	level := ParseLevel(cfg.Level)
	if cfg.JSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(level),
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	}))
}

// NewForTests discards everything below error.
func NewForTests() *slog.Logger {
	return New(io.Discard, Config{Level: "error"})
}

// ParseLevel maps debug|info|warn|error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
