package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Store reads and writes the task list at a fixed path.
type Store struct {
	path   string
	now    func() time.Time
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger for store operations.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a store backed by the file at path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		now:    time.Now,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads all tasks from the backing file.
// A missing file is created with an empty list.
func (s *Store) Load() ([]Task, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("creating task file", "path", s.path)
		if err := s.Save([]Task{}); err != nil {
			return nil, err
		}
		return []Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []Task{}, nil
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse task file %s: %w", s.path, err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	s.logger.Debug("loaded tasks", "path", s.path, "count", len(tasks))
	return tasks, nil
}

// Save overwrites the backing file with tasks, using 2-space indentation.
func (s *Store) Save(tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create task dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	return nil
}

// Add appends a new todo task and persists the list.
func (s *Store) Add(description string) (Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Task{}, ErrEmptyDescription
	}

	tasks, err := s.Load()
	if err != nil {
		return Task{}, err
	}

	now := s.timestamp()
	t := Task{
		ID:          NextID(tasks),
		Description: description,
		Status:      StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	tasks = append(tasks, t)
	if err := s.Save(tasks); err != nil {
		return Task{}, err
	}
	s.logger.Debug("added task", "id", t.ID)
	return t, nil
}

// Update replaces the description of the task with id.
func (s *Store) Update(id int, description string) (Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Task{}, ErrEmptyDescription
	}
	return s.modify(id, func(t *Task) {
		t.Description = description
	})
}

// Mark sets the status of the task with id to in-progress or done.
func (s *Store) Mark(id int, status Status) (Task, error) {
	if !status.Markable() {
		return Task{}, fmt.Errorf("%w %q, must be one of: in-progress, done", ErrInvalidStatus, status)
	}
	t, err := s.modify(id, func(t *Task) {
		t.Status = status
	})
	if err == nil {
		s.logger.Debug("marked task", "id", id, "status", status)
	}
	return t, err
}

// Delete removes every task with id and returns the last one removed.
func (s *Store) Delete(id int) (Task, error) {
	tasks, err := s.Load()
	if err != nil {
		return Task{}, err
	}

	var (
		removed Task
		found   bool
	)
	kept := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == id {
			removed = t
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}

	if err := s.Save(kept); err != nil {
		return Task{}, err
	}
	s.logger.Debug("deleted task", "id", id, "removed", len(tasks)-len(kept))
	return removed, nil
}

// List returns all tasks, or only those with status when it is non-empty.
func (s *Store) List(status Status) ([]Task, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w %q", ErrInvalidStatus, status)
	}
	tasks, err := s.Load()
	if err != nil {
		return nil, err
	}
	return Filter(tasks, status), nil
}

// modify applies fn to the first task with id, bumps updatedAt, and saves.
func (s *Store) modify(id int, fn func(*Task)) (Task, error) {
	tasks, err := s.Load()
	if err != nil {
		return Task{}, err
	}
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		fn(&tasks[i])
		tasks[i].UpdatedAt = s.timestamp()
		if err := s.Save(tasks); err != nil {
			return Task{}, err
		}
		s.logger.Debug("updated task", "id", id)
		return tasks[i], nil
	}
	return Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}
