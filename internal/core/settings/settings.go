// Package settings persists the user's settings blob as a JSON file.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the settings file name inside the data directory.
const FileName = "settings.json"

// Settings is the persisted settings record.
type Settings struct {
	Token string `json:"token"`
}

// Default returns the settings used when nothing has been saved yet.
func Default() Settings {
	return Settings{Token: ""}
}

// Store reads and writes Settings to a JSON file.
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore creates a store at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// PathFor returns the settings file path inside dataDir.
func PathFor(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the saved settings merged over Default. A missing or empty
// file yields the defaults.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Default()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return out, fmt.Errorf("read settings: %w", err)
	}

	if len(data) == 0 {
		return out, nil
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return Default(), fmt.Errorf("parse settings: %w", err)
	}

	return out, nil
}

// Save writes the settings verbatim, replacing the file atomically.
func (s *Store) Save(ctx context.Context, v Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}

	return nil
}

// Update loads the settings, applies fn and saves the result.
func (s *Store) Update(ctx context.Context, fn func(*Settings)) (Settings, error) {
	v, err := s.Load(ctx)
	if err != nil {
		return v, err
	}
	fn(&v)
	if err := s.Save(ctx, v); err != nil {
		return v, err
	}
	return v, nil
}
