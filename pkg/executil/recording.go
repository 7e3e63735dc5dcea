package executil

import (
	"context"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Cmd  string
	Args []string
}

// RecordingExecutor captures commands for testing.
// Configure Outputs and Errors maps to control return values, or Handler for
// argument-dependent or blocking behavior.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	// Outputs maps command names to their output.
	// Key is the command name (e.g., "osascript").
	Outputs map[string][]byte

	// Errors maps command names to their error.
	Errors map[string]error

	// Handler, when set, is called instead of the Outputs/Errors lookup.
	// It runs without the lock held so it may block on ctx.
	Handler func(ctx context.Context, rc RecordedCommand) ([]byte, error)
}

// Output records the command and returns configured output/error.
func (e *RecordingExecutor) Output(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return e.record(ctx, cmd, args...)
}

// Run records the command and returns the configured error.
func (e *RecordingExecutor) Run(ctx context.Context, cmd string, args ...string) error {
	_, err := e.record(ctx, cmd, args...)
	return err
}

func (e *RecordingExecutor) record(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	rc := RecordedCommand{
		Cmd:  cmd,
		Args: append([]string(nil), args...),
	}

	e.mu.Lock()
	e.Commands = append(e.Commands, rc)
	handler := e.Handler

	var out []byte
	var err error
	if e.Outputs != nil {
		out = e.Outputs[cmd]
	}
	if e.Errors != nil {
		err = e.Errors[cmd]
	}
	e.mu.Unlock()

	if handler != nil {
		return handler(ctx, rc)
	}

	return out, err
}

// Recorded returns a copy of the commands recorded so far.
func (e *RecordingExecutor) Recorded() []RecordedCommand {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]RecordedCommand(nil), e.Commands...)
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}
