// Package executil runs external processes and captures their output.
package executil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const maxStderrLen = 500

// limitedWriter caps writes to a bytes.Buffer at a maximum byte count.
// Bytes beyond the limit are silently discarded.
type limitedWriter struct {
	buf *bytes.Buffer
	n   int64
	max int64
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.n >= w.max {
		return len(p), nil
	}
	remaining := w.max - w.n
	origLen := len(p)
	if int64(origLen) > remaining {
		p = p[:remaining]
	}
	n, err := w.buf.Write(p)
	w.n += int64(n)
	if err != nil {
		return n, err
	}
	return origLen, nil
}

// Executor runs external commands.
type Executor interface {
	// Output executes a command and returns its standard output. Standard
	// error is only used to annotate the returned error.
	Output(ctx context.Context, cmd string, args ...string) ([]byte, error)
	// Run executes a command and discards its standard output.
	Run(ctx context.Context, cmd string, args ...string) error
}

// RealExecutor spawns actual processes.
type RealExecutor struct{}

// Output executes a command and returns its standard output.
//
// On failure, stderr is returned as part of the error message, capped at 500
// bytes so a noisy interpreter cannot flood logs or the TUI. The original
// *exec.ExitError is preserved via wrapping so callers can inspect exit codes
// with errors.As. Output written before the failure is still returned.
func (e *RealExecutor) Output(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return e.run(ctx, nil, cmd, args...)
}

// Run executes a command and discards its standard output.
func (e *RealExecutor) Run(ctx context.Context, cmd string, args ...string) error {
	_, err := e.run(ctx, io.Discard, cmd, args...)
	return err
}

func (e *RealExecutor) run(ctx context.Context, stdout io.Writer, cmd string, args ...string) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd, args...)

	var out, errBuf bytes.Buffer
	if stdout == nil {
		stdout = &out
	}
	c.Stdout = stdout
	c.Stderr = &limitedWriter{buf: &errBuf, max: maxStderrLen}

	if err := c.Run(); err != nil {
		msg := strings.TrimSpace(errBuf.String())
		if msg != "" {
			return out.Bytes(), fmt.Errorf("exec %s: %s: %w", cmd, msg, err)
		}
		return out.Bytes(), fmt.Errorf("exec %s: %w", cmd, err)
	}
	return out.Bytes(), nil
}
