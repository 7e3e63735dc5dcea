// Package thingstest provides an in-memory things.Source for tests.
package thingstest

import (
	"context"
	"sync"

	"github.com/colonyops/thingsbar/internal/core/things"
)

// FakeSource is an in-memory Today list. Completed tasks drop out of Today,
// mirroring how Things behaves.
type FakeSource struct {
	mu    sync.Mutex
	tasks []things.Task

	// Error injection
	TodayErr    error
	CompleteErr error
	OpenErr     error

	// Recorded calls
	TodayCalls int
	Completed  []string
	Opened     []string
}

// NewFakeSource creates a fake seeded with tasks.
func NewFakeSource(tasks ...things.Task) *FakeSource {
	return &FakeSource{tasks: append([]things.Task(nil), tasks...)}
}

// Today returns the open tasks.
func (f *FakeSource) Today(_ context.Context) ([]things.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.TodayCalls++
	if f.TodayErr != nil {
		return nil, f.TodayErr
	}

	out := make([]things.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		if !t.Completed() {
			out = append(out, t)
		}
	}
	return out, nil
}

// Complete marks the task with id as completed.
func (f *FakeSource) Complete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Completed = append(f.Completed, id)
	if f.CompleteErr != nil {
		return f.CompleteErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Status = things.StatusCompleted
		}
	}
	return nil
}

// Open records the opened task.
func (f *FakeSource) Open(_ context.Context, t things.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Opened = append(f.Opened, t.ID)
	return f.OpenErr
}

// Add appends a task to the list.
func (f *FakeSource) Add(t things.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, t)
}
