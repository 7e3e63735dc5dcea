package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nextResult struct {
	cfg *Config
	err error
}

func startNext(ctx context.Context, w *Watcher) <-chan nextResult {
	ch := make(chan nextResult, 1)
	go func() {
		cfg, err := w.Next(ctx)
		ch <- nextResult{cfg: cfg, err: err}
	}()
	return ch
}

func newTestWatcher(t *testing.T) (*Watcher, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tui:\n  theme: tokyo-night\n"), 0o644))

	w, err := NewWatcher(path, t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	w.debounceDur = 20 * time.Millisecond
	t.Cleanup(func() { _ = w.Close() })
	return w, path
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	w, path := newTestWatcher(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	results := startNext(ctx, w)
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("tui:\n  theme: gruvbox\npanel:\n  hide: [\"errand*\"]\n"), 0o644))

	res := <-results
	require.NoError(t, res.err)
	assert.Equal(t, "gruvbox", res.cfg.TUI.Theme)
	assert.Equal(t, []string{"errand*"}, res.cfg.Panel.Hide)
}

func TestWatcher_InvalidConfigIsAnError(t *testing.T) {
	w, path := newTestWatcher(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	results := startNext(ctx, w)
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("tui:\n  theme: no-such-theme\n"), 0o644))

	res := <-results
	require.Error(t, res.err)
	assert.Nil(t, res.cfg)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	w, path := newTestWatcher(t)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	results := startNext(ctx, w)
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.yaml"), []byte("x: 1\n"), 0o644))

	res := <-results
	assert.ErrorIs(t, res.err, context.DeadlineExceeded)
}

func TestWatcher_Close(t *testing.T) {
	w, _ := newTestWatcher(t)

	results := startNext(context.Background(), w)
	require.NoError(t, w.Close())

	res := <-results
	assert.ErrorIs(t, res.err, ErrWatcherClosed)
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "config.yaml"), "", zerolog.Nop())
	assert.Error(t, err)
}
