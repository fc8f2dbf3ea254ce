// Package cmd implements the CLI command structure for tasktrack.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasktrack/internal/config"
	"github.com/nibzard/tasktrack/internal/logging"
	"github.com/nibzard/tasktrack/internal/render"
	"github.com/nibzard/tasktrack/internal/task"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries what every subcommand needs.
type app struct {
	cfg     *config.Config
	sources map[string]config.ConfigSource
	store   *task.Store
	logger  *log.Logger
	render  render.Options
	stdout  io.Writer
	stderr  io.Writer
}

// Run executes the tasktrack CLI.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tasktrack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if errors.Is(err, config.ErrInvalidFlags) {
		return newUsageError("%v", err)
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	remainingArgs := fs.Args()
	if len(remainingArgs) == 0 {
		printUsage(fs, stdout)
		return nil
	}
	subcommand := remainingArgs[0]
	remainingArgs = remainingArgs[1:]

	cfg := cws.Config
	logger := logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}
	a := &app{
		cfg:     cfg,
		sources: cws.Sources,
		store:   task.NewStore(cfg.TasksFile, task.WithLogger(logger)),
		logger:  logger,
		render: render.Options{
			TimeFormat: cfg.TimeFormat,
			Border:     cfg.TableBorder,
		},
		stdout: stdout,
		stderr: stderr,
	}
	logger.Debug("dispatching", "command", subcommand, "file", cfg.TasksFile)

	switch subcommand {
	case "add":
		return a.addCommand(remainingArgs)
	case "update":
		return a.updateCommand(remainingArgs)
	case "delete", "rm":
		return a.deleteCommand(remainingArgs)
	case "mark":
		return a.markCommand(remainingArgs)
	case "list", "ls":
		return a.listCommand(remainingArgs)
	case "ui":
		return a.uiCommand(ctx, remainingArgs)
	case "doctor":
		return a.doctorCommand(remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		printUsage(fs, stderr)
		return newUsageError("unknown command: %s", subcommand)
	}
}

// newCommandFlagSet creates a flag set for a subcommand.
func (a *app) newCommandFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet("tasktrack "+name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage:\n  tasktrack %s\n", usage)
		if hasFlags(fs) {
			fmt.Fprintln(a.stderr)
			fmt.Fprintln(a.stderr, "Options:")
			fs.PrintDefaults()
		}
	}
	return fs
}

// parseCommandFlags parses subcommand flags. It reports done when the
// command should stop, either because help was shown or parsing failed.
func parseCommandFlags(fs *flag.FlagSet, args []string) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return true, newUsageError("%v", err)
	}
	return false, nil
}

func hasFlags(fs *flag.FlagSet) bool {
	found := false
	fs.VisitAll(func(*flag.Flag) {
		found = true
	})
	return found
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "tasktrack version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasktrack - track tasks in a local JSON file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasktrack [global options] <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <description>          Add a new task")
	fmt.Fprintln(w, "  update <id> <description>  Update a task's description")
	fmt.Fprintln(w, "  delete <id>                Delete a task")
	fmt.Fprintln(w, "  mark <id> <status>         Mark a task as in-progress or done")
	fmt.Fprintln(w, "  list [status]              List tasks, optionally by status (todo|in-progress|done)")
	fmt.Fprintln(w, "  ui                         Interactive task viewer")
	fmt.Fprintln(w, "  doctor [-v] [-schema]      Check configuration and task file validity")
	fmt.Fprintln(w, "  config                     Show effective configuration")
	fmt.Fprintln(w, "  version                    Show version information")
	fmt.Fprintln(w, "  help                       Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// joinArgs joins positional arguments into one description.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
