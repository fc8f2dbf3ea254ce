// Package ui provides the optional interactive task viewer.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasktrack/internal/render"
	"github.com/nibzard/tasktrack/internal/task"
)

// ErrNoTTY is returned when the viewer is started without a terminal.
var ErrNoTTY = errors.New("ui requires a TTY")

// Loader loads the current task list.
type Loader interface {
	Load() ([]task.Task, error)
}

// Option configures the viewer.
type Option func(*Model)

// WithRefreshInterval sets how often the task file is re-read.
func WithRefreshInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.tickInterval = d
		}
	}
}

// WithFilter starts the viewer filtered to status.
func WithFilter(status task.Status) Option {
	return func(m *Model) {
		m.filter = status
	}
}

// Run starts the viewer on the terminal.
func Run(ctx context.Context, loader Loader, path string, opts render.Options, options ...Option) error {
	if !IsTTY(os.Stdout) {
		return ErrNoTTY
	}
	model := NewModel(loader, path, opts, options...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Model is the bubbletea model for the viewer.
type Model struct {
	loader       Loader
	path         string
	render       render.Options
	tasks        []task.Task
	loadErr      error
	loaded       bool
	filter       task.Status
	showHelp     bool
	tickInterval time.Duration
	width        int
}

type tickMsg time.Time

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	filterStyle = lipgloss.NewStyle().Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	footerStyle = lipgloss.NewStyle().Faint(true)
)

// NewModel creates a viewer model. Data is loaded on Init.
func NewModel(loader Loader, path string, opts render.Options, options ...Option) *Model {
	m := &Model{
		loader:       loader,
		path:         path,
		render:       opts,
		tickInterval: 2 * time.Second,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
		case "h", "?":
			m.showHelp = !m.showHelp
		case "1":
			m.filter = task.StatusTodo
		case "2":
			m.filter = task.StatusInProgress
		case "3":
			m.filter = task.StatusDone
		case "0":
			m.filter = ""
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Task Tracker") + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		m.writeFooter(&b)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString(errorStyle.Render("Error loading task file:") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		m.writeFooter(&b)
		return b.String()
	}
	if !m.loaded {
		b.WriteString("Loading...\n\n")
		m.writeFooter(&b)
		return b.String()
	}

	writeOverview(&b, m.tasks)
	if m.filter != "" {
		b.WriteString(filterStyle.Render(fmt.Sprintf("Filter: %s (0 to clear)", m.filter)) + "\n\n")
	}

	visible := task.Filter(m.tasks, m.filter)
	if len(visible) == 0 {
		b.WriteString("No tasks found.\n\n")
	} else {
		b.WriteString(render.TaskTable(visible, m.render) + "\n\n")
	}

	m.writeFooter(&b)
	return b.String()
}

// Filter returns the active status filter.
func (m *Model) Filter() task.Status {
	return m.filter
}

func (m *Model) refresh() {
	tasks, err := m.loader.Load()
	m.loaded = true
	if err != nil {
		m.loadErr = err
		m.tasks = nil
		return
	}
	m.loadErr = nil
	m.tasks = tasks
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func writeOverview(b *strings.Builder, tasks []task.Task) {
	counts := task.CountByStatus(tasks)
	b.WriteString(fmt.Sprintf("  Todo: %d  In progress: %d  Done: %d  Total: %d\n\n",
		counts[task.StatusTodo],
		counts[task.StatusInProgress],
		counts[task.StatusDone],
		len(tasks),
	))
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, esc, ctrl+c  Quit\n")
	b.WriteString("  r, F5           Refresh now\n")
	b.WriteString("  h, ?            Toggle this help screen\n")
	b.WriteString("  1               Show todo\n")
	b.WriteString("  2               Show in-progress\n")
	b.WriteString("  3               Show done\n")
	b.WriteString("  0               Show all\n\n")
}

func (m *Model) writeFooter(b *strings.Builder) {
	footer := fmt.Sprintf("%s | h for help | q to quit | refreshing every %s", m.path, m.tickInterval)
	b.WriteString(footerStyle.Render(footer) + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
