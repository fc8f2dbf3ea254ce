package config

import (
	"errors"
	"flag"
	"fmt"
)

// ErrInvalidFlags marks errors caused by malformed command-line flags.
var ErrInvalidFlags = errors.New("invalid flags")

// flagBindings maps global CLI flags to config keys.
var flagBindings = []struct {
	name  string
	key   string
	usage string
}{
	{"file", "tasks_file", "Path to the task file"},
	{"time-format", "time_format", "Go time layout for timestamps in tables"},
	{"border", "table_border", "Table border style (normal|rounded|thick|double|ascii|hidden|markdown)"},
	{"log-level", "log_level", "Log level (debug|info|warn|error)"},
	{"log-format", "log_format", "Log format (text|json|logfmt)"},
}

// parseFlags defines the global flags on fs, parses args, and applies every
// flag the user set explicitly.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasktrack", flag.ContinueOnError)
	}

	values := make(map[string]*string, len(flagBindings))
	keys := make(map[string]string, len(flagBindings))
	for _, b := range flagBindings {
		values[b.name] = fs.String(b.name, cfg.Value(b.key), b.usage)
		keys[b.name] = b.key
	}

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFlags, err)
	}

	var setErr error
	fs.Visit(func(f *flag.Flag) {
		key, ok := keys[f.Name]
		if !ok || setErr != nil {
			return
		}
		if err := setField(cfg, key, *values[f.Name]); err != nil {
			setErr = err
			return
		}
		if sources != nil {
			sources[key] = SourceFlag
		}
	})
	return setErr
}
