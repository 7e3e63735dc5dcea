package thingsbar

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/thingsbar/internal/core/logging"
	"github.com/colonyops/thingsbar/internal/core/things"
)

// TaskService wraps a things.Source with the panel's view rules: completed
// to-dos never show and hide patterns are applied to every listing.
type TaskService struct {
	source things.Source
	opener things.Opener
	log    zerolog.Logger

	mu   sync.RWMutex
	hide []string
}

// NewTaskService creates a new TaskService. opener may be nil, in which case
// Open always fails.
func NewTaskService(source things.Source, opener things.Opener, hide []string, log zerolog.Logger) *TaskService {
	return &TaskService{
		source: source,
		opener: opener,
		hide:   hide,
		log:    logging.Sub(log, "tasks"),
	}
}

// SetHide replaces the hide patterns applied by Today.
func (s *TaskService) SetHide(patterns []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hide = patterns
}

// Today returns the visible open to-dos in Things order.
func (s *TaskService) Today(ctx context.Context) ([]things.Task, error) {
	tasks, err := s.source.Today(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	hide := s.hide
	s.mu.RUnlock()

	open := make([]things.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed() {
			open = append(open, t)
		}
	}

	visible := things.Hide(open, hide)
	s.log.Debug().Ctx(ctx).
		Int("listed", len(tasks)).
		Int("visible", len(visible)).
		Msg("fetched today list")
	return visible, nil
}

// Complete marks the to-do with id as completed.
func (s *TaskService) Complete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return things.ErrEmptyID
	}

	ctx = logging.WithTaskID(ctx, id)
	if err := s.source.Complete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Ctx(ctx).Msg("task completed")
	return nil
}

// Open reveals the to-do with id in Things. The name is looked up from the
// Today list when available so logs and errors read naturally, but an id that
// is not in Today still opens.
func (s *TaskService) Open(ctx context.Context, id string) (things.Task, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return things.Task{}, things.ErrEmptyID
	}
	if s.opener == nil {
		return things.Task{}, fmt.Errorf("open %s: no opener configured", id)
	}

	task := things.Task{ID: id, Status: things.StatusOpen}
	if tasks, err := s.source.Today(ctx); err == nil {
		for _, t := range tasks {
			if t.ID == id {
				task = t
				break
			}
		}
	} else {
		s.log.Debug().Err(err).Str("task", id).Msg("lookup before open failed")
	}

	if err := s.opener.Open(logging.WithTaskID(ctx, id), task); err != nil {
		return task, err
	}
	return task, nil
}
