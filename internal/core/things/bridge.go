package things

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/thingsbar/pkg/executil"
)

// Script verbs understood by the bundled bridge script.
const (
	VerbToday    = "today"
	VerbComplete = "complete"
)

const defaultTimeout = 10 * time.Second

// BridgeConfig describes how to invoke the scripting bridge.
type BridgeConfig struct {
	Interpreter     string        // e.g. osascript
	InterpreterArgs []string      // arguments placed before the script path
	Script          string        // absolute path to the bridge script
	Format          Format        // listing format requested from the script
	Timeout         time.Duration // per-call timeout; zero uses the default
	Opener          string        // command used to open deep links
}

// Bridge implements Source and Opener by running the bridge script as an
// external process.
type Bridge struct {
	exec     executil.Executor
	cfg      BridgeConfig
	log      zerolog.Logger
	lookPath func(string) (string, error)
}

// NewBridge creates a bridge that runs commands through executor.
func NewBridge(executor executil.Executor, cfg BridgeConfig, log zerolog.Logger) *Bridge {
	if cfg.Format == "" {
		cfg.Format = FormatJSON
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Opener == "" {
		cfg.Opener = "open"
	}
	return &Bridge{
		exec:     executor,
		cfg:      cfg,
		log:      log,
		lookPath: exec.LookPath,
	}
}

// Check reports whether the bridge can run here. It returns an error wrapping
// ErrUnsupported when the interpreter or the script is unavailable.
func (b *Bridge) Check() error {
	if _, err := b.lookPath(b.cfg.Interpreter); err != nil {
		return fmt.Errorf("%w: interpreter %q not found on PATH", ErrUnsupported, b.cfg.Interpreter)
	}
	info, err := os.Stat(b.cfg.Script)
	if err != nil {
		return fmt.Errorf("%w: script %s: %v", ErrUnsupported, b.cfg.Script, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: script %s is a directory", ErrUnsupported, b.cfg.Script)
	}
	return nil
}

// Today runs the listing verb and decodes its output.
func (b *Bridge) Today(ctx context.Context) ([]Task, error) {
	out, err := b.call(ctx, VerbToday, string(b.cfg.Format))
	if err != nil {
		return nil, fmt.Errorf("list today: %w", err)
	}

	tasks, err := Decode(b.cfg.Format, out)
	if err != nil {
		return nil, fmt.Errorf("decode today: %w", err)
	}
	return tasks, nil
}

// Complete runs the completion verb for id. Output is ignored.
func (b *Bridge) Complete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrEmptyID
	}
	if _, err := b.call(ctx, VerbComplete, id); err != nil {
		return fmt.Errorf("complete %s: %w", id, err)
	}
	return nil
}

// Open reveals t in Things through its deep link.
func (b *Bridge) Open(ctx context.Context, t Task) error {
	if t.ID == "" {
		return ErrEmptyID
	}
	if err := b.OpenURL(ctx, t.URL()); err != nil {
		return fmt.Errorf("open %s: %w", t.ID, err)
	}
	return nil
}

// OpenURL hands a things:// link to the configured opener.
func (b *Bridge) OpenURL(ctx context.Context, link string) error {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	return b.exec.Run(ctx, b.cfg.Opener, link)
}

func (b *Bridge) call(ctx context.Context, verb string, rest ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	args := make([]string, 0, len(b.cfg.InterpreterArgs)+2+len(rest))
	args = append(args, b.cfg.InterpreterArgs...)
	args = append(args, b.cfg.Script, verb)
	args = append(args, rest...)

	// call_id ties the start and finish lines of one process together when
	// refreshes overlap.
	callID := uuid.NewString()
	b.log.Debug().Ctx(ctx).Str("call_id", callID).Str("verb", verb).Msg("bridge call started")

	start := time.Now()
	out, err := b.exec.Output(ctx, b.cfg.Interpreter, args...)

	ev := b.log.Debug()
	if err != nil {
		ev = b.log.Warn().Err(err)
	}
	ev.Ctx(ctx).
		Str("call_id", callID).
		Str("verb", verb).
		Dur("took", time.Since(start)).
		Int("bytes", len(out)).
		Msg("bridge call finished")

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("timed out after %s: %w", b.cfg.Timeout, ctx.Err())
		}
		return nil, err
	}
	return out, nil
}
