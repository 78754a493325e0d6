// Package tasks manages the task list whose completion rate is shown on the board.
package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// MaxTasks is the largest list the board is meant to track
const MaxTasks = 8

var (
	ErrTooManyTasks = errors.New("task limit reached")
	ErrTaskNotFound = errors.New("task not found")
	ErrEmptyTitle   = errors.New("task title is empty")
)

// Task is one entry of tasks.json
type Task struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Completed     bool   `json:"completed"`
	Duration      int    `json:"duration"`
	IsTiming      bool   `json:"is_timing"`
	TimeRemaining int    `json:"time_remaining"`
}

// Stats summarizes a list
type Stats struct {
	Total          int
	Completed      int
	Pending        int
	CompletionRate int
}

// List is a task list backed by a JSON file
type List struct {
	fs    afero.Fs
	path  string
	Tasks []Task
}

// DefaultTasks seeds a missing tasks file.
func DefaultTasks() []Task {
	return []Task{
		{ID: 1, Title: "Plan the project", Completed: true},
		{ID: 2, Title: "Write the code"},
		{ID: 3, Title: "Test the features"},
		{ID: 4, Title: "Deploy"},
		{ID: 5, Title: "Write the docs"},
	}
}

// Load reads the list at path, creating it with DefaultTasks when missing.
func Load(fs afero.Fs, path string) (*List, error) {
	l := &List{fs: fs, path: path}

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !exists {
		log.Info().Str("path", path).Msg("tasks file missing, creating defaults")
		l.Tasks = DefaultTasks()
		if err := l.Save(); err != nil {
			return nil, err
		}
		return l, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &l.Tasks); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	log.Debug().Str("path", path).Int("count", len(l.Tasks)).Msg("tasks loaded")
	return l, nil
}

// Save writes the list back to its file.
func (l *List) Save() error {
	if l.Tasks == nil {
		l.Tasks = []Task{}
	}
	data, err := json.MarshalIndent(l.Tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	if err := afero.WriteFile(l.fs, l.path, data, os.FileMode(0o644)); err != nil {
		return fmt.Errorf("failed to write %s: %w", l.path, err)
	}
	return nil
}

// Stats computes the list totals.
func (l *List) Stats() Stats {
	s := Stats{Total: len(l.Tasks)}
	for _, t := range l.Tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	s.CompletionRate = CompletionRate(s.Completed, s.Total)
	return s
}

// CompletionRate returns completed/total as a percentage rounded half to
// even, or 0 for an empty list.
func CompletionRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.RoundToEven(float64(completed) / float64(total) * 100))
}

func (l *List) find(id int) (*Task, error) {
	for i := range l.Tasks {
		if l.Tasks[i].ID == id {
			return &l.Tasks[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
}

// Toggle flips the completion state of task id.
func (l *List) Toggle(id int) (Task, error) {
	t, err := l.find(id)
	if err != nil {
		return Task{}, err
	}
	t.Completed = !t.Completed
	return *t, nil
}

// Add appends a new pending task with the next free ID.
func (l *List) Add(title string, duration int) (Task, error) {
	if len(l.Tasks) >= MaxTasks {
		return Task{}, fmt.Errorf("%w: %d", ErrTooManyTasks, MaxTasks)
	}
	if strings.TrimSpace(title) == "" {
		return Task{}, ErrEmptyTitle
	}

	id := 1
	for _, t := range l.Tasks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}

	t := Task{ID: id, Title: title, Duration: duration, TimeRemaining: duration}
	l.Tasks = append(l.Tasks, t)
	return t, nil
}

// Delete removes task id.
func (l *List) Delete(id int) error {
	for i := range l.Tasks {
		if l.Tasks[i].ID == id {
			l.Tasks = append(l.Tasks[:i], l.Tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrTaskNotFound, id)
}

// Rename changes the title of task id.
func (l *List) Rename(id int, title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	t, err := l.find(id)
	if err != nil {
		return err
	}
	t.Title = title
	return nil
}

// SetDuration changes the planned duration; the remaining time follows it
// unless the task is being timed.
func (l *List) SetDuration(id, duration int) error {
	t, err := l.find(id)
	if err != nil {
		return err
	}
	t.Duration = duration
	if !t.IsTiming {
		t.TimeRemaining = duration
	}
	return nil
}

// SetTiming starts or stops the countdown of task id. A negative remaining
// leaves the remaining time as it is.
func (l *List) SetTiming(id int, timing bool, remaining int) error {
	t, err := l.find(id)
	if err != nil {
		return err
	}
	t.IsTiming = timing
	if remaining >= 0 {
		t.TimeRemaining = remaining
	}
	return nil
}
