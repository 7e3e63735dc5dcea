package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ErrWatcherClosed is returned by Watcher.Next after Close.
var ErrWatcherClosed = errors.New("config watcher closed")

const defaultReloadDebounce = 200 * time.Millisecond

// Watcher reloads the config file whenever it changes on disk. It watches the
// parent directory so editors that save by rename are still picked up.
type Watcher struct {
	watcher     *fsnotify.Watcher
	path        string
	dataDir     string
	debounceDur time.Duration
	log         zerolog.Logger
}

// NewWatcher watches configPath. The directory must exist; the file need not.
func NewWatcher(configPath, dataDir string, log zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	abs, err := filepath.Abs(configPath)
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		watcher:     fw,
		path:        abs,
		dataDir:     dataDir,
		debounceDur: defaultReloadDebounce,
		log:         log,
	}, nil
}

// Next blocks until the config file changes and the burst of writes settles,
// then returns the reloaded config. A config that fails to load is returned as
// an error; the caller keeps its current config and calls Next again.
func (w *Watcher) Next(ctx context.Context) (*Config, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil, ErrWatcherClosed
			}
			if !w.relevant(event) {
				continue
			}

			w.log.Debug().
				Str("path", event.Name).
				Str("op", event.Op.String()).
				Msg("config file event")

			if err := w.settle(ctx); err != nil {
				return nil, err
			}

			return Load(w.path, w.dataDir)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil, ErrWatcherClosed
			}
			w.log.Error().Err(err).Msg("config watcher error")
		}
	}
}

// settle waits until no relevant event has arrived for the debounce window.
func (w *Watcher) settle(ctx context.Context) error {
	debounce := time.NewTimer(w.debounceDur)
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-w.watcher.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if !w.relevant(e) {
				continue
			}
			debounce.Reset(w.debounceDur)
		case <-debounce.C:
			return nil
		}
	}
}

func (w *Watcher) relevant(e fsnotify.Event) bool {
	return filepath.Clean(e.Name) == w.path && !e.Has(fsnotify.Chmod)
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
