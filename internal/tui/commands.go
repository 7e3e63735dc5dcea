package tui

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/thingsbar/internal/core/config"
	"github.com/colonyops/thingsbar/internal/core/logging"
	"github.com/colonyops/thingsbar/internal/core/scheduler"
	"github.com/colonyops/thingsbar/internal/core/things"
)

// refreshRequestMsg is a scheduler firing delivered into the update loop.
type refreshRequestMsg scheduler.Request

// tasksLoadedMsg carries the result of one Today fetch.
type tasksLoadedMsg struct {
	Gen    uint64
	Notify bool
	Tasks  []things.Task
	Err    error
}

// completeDoneMsg reports a finished completion. Index is where the task sat
// before it was optimistically removed.
type completeDoneMsg struct {
	Task  things.Task
	Index int
	Err   error
}

// configReloadedMsg carries one result from the config watcher.
type configReloadedMsg struct {
	Config *config.Config
	Err    error
}

type openDoneMsg struct {
	Task things.Task
	Err  error
}

// listenRequests waits for the next scheduler firing. It returns nil once ctx
// is done so the waiting goroutine exits on teardown.
func listenRequests(ctx context.Context, q *scheduler.Queue) tea.Cmd {
	return func() tea.Msg {
		select {
		case req := <-q.C():
			return refreshRequestMsg(req)
		case <-ctx.Done():
			return nil
		}
	}
}

func fetchToday(ctx context.Context, src things.Source, req scheduler.Request) tea.Cmd {
	return func() tea.Msg {
		ctx := logging.WithRefreshGen(ctx, req.Gen)
		tasks, err := src.Today(ctx)
		return tasksLoadedMsg{Gen: req.Gen, Notify: req.Notify, Tasks: tasks, Err: err}
	}
}

func completeTask(ctx context.Context, src things.Source, t things.Task, index int) tea.Cmd {
	return func() tea.Msg {
		ctx := logging.WithTaskID(ctx, t.ID)
		return completeDoneMsg{Task: t, Index: index, Err: src.Complete(ctx, t.ID)}
	}
}

func openTask(ctx context.Context, opener things.Opener, t things.Task) tea.Cmd {
	return func() tea.Msg {
		ctx := logging.WithTaskID(ctx, t.ID)
		return openDoneMsg{Task: t, Err: opener.Open(ctx, t)}
	}
}

func waitForConfig(ctx context.Context, src ConfigSource) tea.Cmd {
	return func() tea.Msg {
		cfg, err := src.Next(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return configReloadedMsg{Config: cfg, Err: err}
	}
}
