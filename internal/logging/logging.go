// Package logging configures leveled diagnostic logging with charmbracelet/log.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Options holds configuration for the diagnostic logger.
type Options struct {
	Level           string
	Verbose         bool
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns options for a quiet logger that only reports warnings.
func DefaultOptions() Options {
	return Options{
		Level:  "warn",
		Prefix: "tasktrack",
	}
}

// New creates a logger writing to w. Verbose forces debug level.
// Each logger carries a session field so lines from one run can be grouped.
func New(w io.Writer, opts Options) *log.Logger {
	level := ParseLevel(opts.Level)
	if opts.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
	return logger.With("session", uuid.NewString()[:8])
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel maps a level name to a log level, defaulting to warn.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}
