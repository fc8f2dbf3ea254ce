package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status represents a task status.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// LegacyTimeLayout is the timestamp layout used by earlier task files.
const LegacyTimeLayout = "02/01/2006 15:04:05"

var (
	// ErrNotFound is returned when no task has the requested ID.
	ErrNotFound = errors.New("task not found")
	// ErrInvalidStatus is returned for a status outside the allowed set.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrEmptyDescription is returned when a description is blank.
	ErrEmptyDescription = errors.New("description is empty")
)

// Statuses returns all statuses in display order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Markable reports whether a task can be marked with s.
// New tasks start as todo; marking only moves them forward.
func (s Status) Markable() bool {
	return s == StatusInProgress || s == StatusDone
}

// ParseStatus parses user input into a Status.
// It accepts a few spellings of in-progress.
func ParseStatus(input string) (Status, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	switch s {
	case "todo":
		return StatusTodo, nil
	case "in-progress", "in_progress", "inprogress", "doing":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	}
	return "", fmt.Errorf("%w %q, must be one of: todo, in-progress, done", ErrInvalidStatus, input)
}

// Task represents a single tracked item.
type Task struct {
	ID          int       `json:"id"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UnmarshalJSON accepts both RFC 3339 and legacy timestamps.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
		Status      Status `json:"status"`
		CreatedAt   string `json:"createdAt"`
		UpdatedAt   string `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	created, err := ParseTimestamp(raw.CreatedAt)
	if err != nil {
		return fmt.Errorf("task %d createdAt: %w", raw.ID, err)
	}
	updated, err := ParseTimestamp(raw.UpdatedAt)
	if err != nil {
		return fmt.Errorf("task %d updatedAt: %w", raw.ID, err)
	}

	*t = Task{
		ID:          raw.ID,
		Description: raw.Description,
		Status:      raw.Status,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}
	return nil
}

// ParseTimestamp parses an RFC 3339 or legacy timestamp.
// An empty string yields the zero time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	ts, err := time.ParseInLocation(LegacyTimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
	}
	return ts.UTC(), nil
}

// Filter returns the tasks with the given status.
// An empty status returns a copy of all tasks.
func Filter(tasks []Task, status Status) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if status == "" || t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// CountByStatus counts tasks per status.
func CountByStatus(tasks []Task) map[Status]int {
	counts := map[Status]int{
		StatusTodo:       0,
		StatusInProgress: 0,
		StatusDone:       0,
	}
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}

// NextID returns the ID a new task would receive.
func NextID(tasks []Task) int {
	return len(tasks) + 1
}
