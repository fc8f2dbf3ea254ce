package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/tasktrack/internal/render"
	"github.com/nibzard/tasktrack/internal/task"
	"github.com/nibzard/tasktrack/internal/ui"
)

// addCommand adds a new task and prints it.
func (a *app) addCommand(args []string) error {
	fs := a.newCommandFlagSet("add", "add <description>")

	// add takes no flags, so a description may start with "-".
	if len(args) > 0 {
		switch args[0] {
		case "-h", "-help", "--help":
			fs.Usage()
			return nil
		case "--":
			args = args[1:]
		}
	}

	description := joinArgs(args)
	if description == "" {
		return newUsageError("add requires a description")
	}

	t, err := a.store.Add(description)
	if err != nil {
		return err
	}
	return render.Table(a.stdout, []task.Task{t}, a.render)
}

// updateCommand replaces a task's description.
func (a *app) updateCommand(args []string) error {
	fs := a.newCommandFlagSet("update", "update <id> <description>")
	if done, err := parseCommandFlags(fs, args); done {
		return err
	}

	rest := fs.Args()
	if len(rest) < 2 {
		return newUsageError("update requires an id and a description")
	}
	id, err := parseID(rest[0])
	if err != nil {
		return err
	}
	description := joinArgs(rest[1:])
	if description == "" {
		return newUsageError("update requires a description")
	}

	t, err := a.store.Update(id, description)
	if err != nil {
		return a.notFound(err, id)
	}
	return render.Table(a.stdout, []task.Task{t}, a.render)
}

// deleteCommand removes a task.
func (a *app) deleteCommand(args []string) error {
	fs := a.newCommandFlagSet("delete", "delete <id>")
	if done, err := parseCommandFlags(fs, args); done {
		return err
	}

	rest := fs.Args()
	if len(rest) != 1 {
		return newUsageError("delete requires exactly one id")
	}
	id, err := parseID(rest[0])
	if err != nil {
		return err
	}

	t, err := a.store.Delete(id)
	if err != nil {
		return a.notFound(err, id)
	}
	fmt.Fprintf(a.stdout, "Task %d deleted successfully:\n", id)
	return render.Table(a.stdout, []task.Task{t}, a.render)
}

// markCommand sets a task's status to in-progress or done.
func (a *app) markCommand(args []string) error {
	fs := a.newCommandFlagSet("mark", "mark <id> <in-progress|done>")
	if done, err := parseCommandFlags(fs, args); done {
		return err
	}

	rest := fs.Args()
	if len(rest) != 2 {
		return newUsageError("mark requires an id and a status (in-progress|done)")
	}
	id, err := parseID(rest[0])
	if err != nil {
		return err
	}
	status, err := task.ParseStatus(rest[1])
	if err != nil || !status.Markable() {
		return newUsageError("invalid status %q (expected in-progress|done)", rest[1])
	}

	t, err := a.store.Mark(id, status)
	if err != nil {
		return a.notFound(err, id)
	}
	return render.Table(a.stdout, []task.Task{t}, a.render)
}

// listCommand lists tasks, optionally filtered by status.
func (a *app) listCommand(args []string) error {
	fs := a.newCommandFlagSet("list", "list [todo|in-progress|done]")
	statusFlag := fs.String("status", "", "Filter by status (todo|in-progress|done)")
	if done, err := parseCommandFlags(fs, args); done {
		return err
	}

	rest := fs.Args()
	if len(rest) > 1 {
		return newUsageError("unexpected arguments: %v", rest[1:])
	}
	filter := *statusFlag
	if len(rest) == 1 {
		filter = rest[0]
	}

	status, err := parseFilter(filter)
	if err != nil {
		return err
	}

	tasks, err := a.store.List(status)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(a.stdout, "No tasks found.")
		return nil
	}
	return render.Table(a.stdout, tasks, a.render)
}

// uiCommand launches the interactive viewer.
func (a *app) uiCommand(ctx context.Context, args []string) error {
	fs := a.newCommandFlagSet("ui", "ui [-status status] [-interval duration]")
	statusFlag := fs.String("status", "", "Initial status filter (todo|in-progress|done)")
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")
	if done, err := parseCommandFlags(fs, args); done {
		return err
	}
	if len(fs.Args()) > 0 {
		return newUsageError("unexpected arguments: %v", fs.Args())
	}

	status, err := parseFilter(*statusFlag)
	if err != nil {
		return err
	}

	err = ui.Run(ctx, a.store, a.cfg.TasksFile, a.render,
		ui.WithFilter(status),
		ui.WithRefreshInterval(*interval),
	)
	if errors.Is(err, ui.ErrNoTTY) {
		return newUsageError("%v; use 'tasktrack list' instead", err)
	}
	return err
}

// notFound turns a not-found error into the user-facing message.
// Other errors are returned unchanged.
func (a *app) notFound(err error, id int) error {
	if errors.Is(err, task.ErrNotFound) {
		a.logger.Debug("task not found", "id", id)
		fmt.Fprintf(a.stdout, "Task with ID %d not found.\n", id)
		return nil
	}
	if errors.Is(err, task.ErrEmptyDescription) || errors.Is(err, task.ErrInvalidStatus) {
		return newUsageError("%v", err)
	}
	return err
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id < 1 {
		return 0, newUsageError("invalid task id %q (expected a positive integer)", s)
	}
	return id, nil
}

func parseFilter(s string) (task.Status, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	status, err := task.ParseStatus(s)
	if err != nil {
		return "", newUsageError("invalid status %q (expected %s)", s, statusChoices())
	}
	return status, nil
}

// statusChoices lists the valid statuses as "todo|in-progress|done".
func statusChoices() string {
	names := make([]string, 0, len(task.Statuses()))
	for _, s := range task.Statuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, "|")
}
