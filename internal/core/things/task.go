// Package things models Things 3 to-dos and the bridge that reads and
// completes them through the macOS scripting interpreter.
package things

import (
	"context"
	"errors"
	"net/url"
)

// Status is the completion state of a to-do.
type Status string

const (
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
)

// Task is a single to-do in the Today list. Things owns the data; the panel
// only ever holds the most recent snapshot.
type Task struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status Status `json:"status"`
}

// DeepLinkBase is the URI that reveals an item inside Things.
const DeepLinkBase = "things:///show"

// TodayURL reveals the Today list.
const TodayURL = DeepLinkBase + "?id=today"

// URL returns the deep link that opens the task in Things.
func (t Task) URL() string {
	return DeepLinkBase + "?id=" + url.QueryEscape(t.ID)
}

// Completed reports whether the task is done.
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

var (
	// ErrUnsupported is returned when the scripting bridge cannot run in the
	// current environment (interpreter missing, script missing).
	ErrUnsupported = errors.New("things bridge unsupported in this environment")

	// ErrEmptyID is returned when completing or opening a task without an id.
	ErrEmptyID = errors.New("task id is required")
)

// Source reads the Today list and completes tasks.
type Source interface {
	// Today returns the to-dos currently in the Today list.
	Today(ctx context.Context) ([]Task, error)
	// Complete marks the to-do with the given id as completed.
	Complete(ctx context.Context, id string) error
}

// Opener reveals a task in the Things application.
type Opener interface {
	Open(ctx context.Context, t Task) error
}
