// Package render formats task lists as terminal tables.
package render

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nibzard/tasktrack/internal/task"
)

// DefaultTimeFormat is the Go layout used for timestamps in tables.
const DefaultTimeFormat = "02/01/2006 15:04:05"

// DefaultBorder is the default table border name.
const DefaultBorder = "normal"

// Headers are the table column titles.
var Headers = []string{"Id", "Description", "Status", "Created At", "Updated At"}

var borders = map[string]func() lipgloss.Border{
	"normal":   lipgloss.NormalBorder,
	"rounded":  lipgloss.RoundedBorder,
	"thick":    lipgloss.ThickBorder,
	"double":   lipgloss.DoubleBorder,
	"ascii":    lipgloss.ASCIIBorder,
	"hidden":   lipgloss.HiddenBorder,
	"markdown": lipgloss.MarkdownBorder,
}

// Options controls table rendering.
type Options struct {
	// TimeFormat is a Go time layout. Empty means DefaultTimeFormat.
	TimeFormat string
	// Border names a border style (see BorderNames). Empty means DefaultBorder.
	Border string
	// Location converts timestamps before formatting. Nil means time.Local.
	Location *time.Location
}

// BorderNames returns the accepted border names, sorted.
func BorderNames() []string {
	names := make([]string, 0, len(borders))
	for name := range borders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidBorder reports whether name is a known border style.
func ValidBorder(name string) bool {
	_, ok := borders[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	statusStyle = map[task.Status]lipgloss.Style{
		task.StatusTodo:       cellStyle.Foreground(lipgloss.Color("3")),
		task.StatusInProgress: cellStyle.Foreground(lipgloss.Color("4")),
		task.StatusDone:       cellStyle.Foreground(lipgloss.Color("2")),
	}
)

const statusColumn = 2

// TaskTable renders tasks as a bordered table with one row per task.
func TaskTable(tasks []task.Task, opts Options) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, Row(t, opts))
	}

	border := borders[DefaultBorder]
	if b, ok := borders[strings.ToLower(strings.TrimSpace(opts.Border))]; ok {
		border = b
	}

	tbl := table.New().
		Border(border()).
		BorderRow(true).
		Headers(Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == statusColumn && row >= 0 && row < len(tasks) {
				if style, ok := statusStyle[tasks[row].Status]; ok {
					return style
				}
			}
			return cellStyle
		})
	return tbl.String()
}

// Row returns the table cells for t.
func Row(t task.Task, opts Options) []string {
	return []string{
		strconv.Itoa(t.ID),
		t.Description,
		string(t.Status),
		FormatTime(t.CreatedAt, opts),
		FormatTime(t.UpdatedAt, opts),
	}
}

// FormatTime formats ts for display. The zero time renders as "-".
func FormatTime(ts time.Time, opts Options) string {
	if ts.IsZero() {
		return "-"
	}
	layout := opts.TimeFormat
	if layout == "" {
		layout = DefaultTimeFormat
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return ts.In(loc).Format(layout)
}

// Table writes the task table for tasks to w, followed by a newline.
func Table(w io.Writer, tasks []task.Task, opts Options) error {
	_, err := fmt.Fprintln(w, TaskTable(tasks, opts))
	return err
}
