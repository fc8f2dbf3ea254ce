// Package logging builds the leveled console logger used across tasktrack.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Options holds configuration for console logging.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	ReportCaller    bool
	Prefix          string
}

// DefaultOptions returns default options for console logging.
// The level is warn so command output is not interleaved with log lines.
func DefaultOptions() Options {
	return Options{
		Level:           log.WarnLevel,
		Formatter:       log.TextFormatter,
		ReportTimestamp: false,
		ReportCaller:    false,
		Prefix:          "tasktrack",
	}
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		ReportCaller:    opts.ReportCaller,
		Prefix:          opts.Prefix,
	})
}

// NewFromConfig creates a logger from string configuration values.
// This is useful when loading config from TOML or environment variables.
func NewFromConfig(w io.Writer, level, format string, timestamps, caller bool) *log.Logger {
	opts := DefaultOptions()
	opts.Level = ParseLevel(level)
	opts.Formatter = ParseFormatter(format)
	opts.ReportTimestamp = timestamps
	opts.ReportCaller = caller
	return New(w, opts)
}

// ParseLevel parses a string log level. Unknown values map to warn.
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
	case "fatal":
		return log.FatalLevel
	default:
		return log.WarnLevel
	}
}

// ParseFormatter parses a formatter name. Unknown values map to text.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// ValidLevel reports whether level is a recognized level name.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "warning", "error", "fatal":
		return true
	}
	return false
}

// ValidFormat reports whether format is a recognized formatter name.
func ValidFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "json", "logfmt":
		return true
	}
	return false
}
