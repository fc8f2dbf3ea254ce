package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nibzard/tasktrack/internal/config"
	"github.com/nibzard/tasktrack/internal/task"
)

// doctorCommand checks configuration and task file validity.
func (a *app) doctorCommand(args []string) error {
	flags := a.newCommandFlagSet("doctor", "doctor [-v] [-schema]")
	verbose := flags.Bool("v", false, "Verbose output")
	printSchema := flags.Bool("schema", false, "Print the task file JSON Schema and exit")
	if done, err := parseCommandFlags(flags, args); done {
		return err
	}
	if len(flags.Args()) > 0 {
		return newUsageError("unexpected arguments: %v", flags.Args())
	}

	if *printSchema {
		_, err := a.stdout.Write(task.Schema())
		return err
	}

	w := a.stdout
	fmt.Fprintln(w, "Task Tracker Doctor")
	fmt.Fprintln(w, "===================")
	fmt.Fprintln(w)

	allOK := true

	// Config
	fmt.Fprintln(w, "Config:")
	fmt.Fprintf(w, "  User file: %s\n", orNone(a.cfg.UserConfigFile))
	fmt.Fprintf(w, "  Project file: %s\n", orNone(a.cfg.ProjectConfigFile))
	for _, warning := range a.cfg.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	fmt.Fprintln(w, "  ✅ OK")
	fmt.Fprintln(w)

	// Task file
	path := a.cfg.TasksFile
	fmt.Fprintf(w, "Task file: %s\n", path)
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(w, "  ⚠️  Not found (will be created on first use)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	default:
		if !a.checkTaskFile(path, *verbose) {
			allOK = false
		}
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

func (a *app) checkTaskFile(path string, verbose bool) bool {
	w := a.stdout
	result, err := task.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(w, "  ❌ %v\n", err)
		return false
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	if !result.Valid {
		fmt.Fprintln(w, "  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}
	fmt.Fprintln(w, "  ✅ Valid")

	if verbose {
		tasks, err := a.store.Load()
		if err != nil {
			fmt.Fprintf(w, "  ❌ Load error: %v\n", err)
			return false
		}
		fmt.Fprintf(w, "  Tasks: %d\n", len(tasks))
		for _, t := range tasks {
			fmt.Fprintf(w, "    - [%s] %d: %s\n", t.Status, t.ID, t.Description)
		}
	}
	return true
}

// configCommand prints the effective configuration and where each value came from.
func (a *app) configCommand(args []string) error {
	flags := a.newCommandFlagSet("config", "config [-example]")
	example := flags.Bool("example", false, "Print an example config file")
	if done, err := parseCommandFlags(flags, args); done {
		return err
	}
	if len(flags.Args()) > 0 {
		return newUsageError("unexpected arguments: %v", flags.Args())
	}

	if *example {
		fmt.Fprint(a.stdout, config.ExampleConfig())
		return nil
	}

	for _, key := range config.Fields() {
		source := a.sources[key]
		if source == "" {
			source = config.SourceDefault
		}
		fmt.Fprintf(a.stdout, "%-15s = %-30q (%s)\n", key, a.cfg.Value(key), source)
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
