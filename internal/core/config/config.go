// Package config handles configuration loading and validation for thingsbar.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/thingsbar/internal/core/styles"
	"github.com/colonyops/thingsbar/internal/core/things"
	"github.com/colonyops/thingsbar/internal/scripts"
)

// Config holds the application configuration.
type Config struct {
	Bridge  BridgeConfig  `yaml:"bridge"`
	Refresh RefreshConfig `yaml:"refresh"`
	Panel   PanelConfig   `yaml:"panel"`
	TUI     TUIConfig     `yaml:"tui"`
	DataDir string        `yaml:"-"` // set by caller, not from config file
}

// BridgeConfig describes how the Things bridge script is invoked.
type BridgeConfig struct {
	Interpreter     string        `yaml:"interpreter"`      // executable that runs the script
	InterpreterArgs []string      `yaml:"interpreter_args"` // arguments placed before the script path
	Script          string        `yaml:"script"`           // empty = bundled script in the data dir
	Format          string        `yaml:"format"`           // json or html
	Timeout         time.Duration `yaml:"timeout"`          // per-call timeout
	Opener          string        `yaml:"opener"`           // command used to open things:// links
}

// RefreshConfig controls the panel's refresh cadence.
type RefreshConfig struct {
	Interval      time.Duration `yaml:"interval"`       // periodic tick; 0 disables
	CompleteDelay time.Duration `yaml:"complete_delay"` // reconciliation delay after a completion
}

// PanelConfig controls what the panel shows.
type PanelConfig struct {
	Hide []string `yaml:"hide"` // glob patterns matched against task names
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Bridge: BridgeConfig{
			Interpreter:     "osascript",
			InterpreterArgs: []string{"-l", "JavaScript"},
			Format:          string(things.FormatJSON),
			Timeout:         10 * time.Second,
			Opener:          "open",
		},
		Refresh: RefreshConfig{
			Interval:      5 * time.Minute,
			CompleteDelay: 3 * time.Second,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for options that cannot meaningfully be
// empty. refresh.interval is left alone: an explicit 0 disables the tick.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Bridge.Interpreter == "" {
		c.Bridge.Interpreter = defaults.Bridge.Interpreter
		if c.Bridge.InterpreterArgs == nil {
			c.Bridge.InterpreterArgs = defaults.Bridge.InterpreterArgs
		}
	}
	if c.Bridge.Format == "" {
		c.Bridge.Format = defaults.Bridge.Format
	}
	if c.Bridge.Timeout == 0 {
		c.Bridge.Timeout = defaults.Bridge.Timeout
	}
	if c.Bridge.Opener == "" {
		c.Bridge.Opener = defaults.Bridge.Opener
	}
	if c.Refresh.CompleteDelay == 0 {
		c.Refresh.CompleteDelay = defaults.Refresh.CompleteDelay
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// ScriptPath returns the bridge script to run: the configured path, or the
// bundled script extracted into the data directory.
func (c *Config) ScriptPath() string {
	if c.Bridge.Script != "" {
		return c.Bridge.Script
	}
	return scripts.ThingsScriptPath(c.DataDir)
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Bridge.Interpreter == "" {
		return fmt.Errorf("bridge.interpreter cannot be empty")
	}

	if !things.Format(c.Bridge.Format).Valid() {
		return fmt.Errorf("bridge.format must be %q or %q, got %q", things.FormatJSON, things.FormatHTML, c.Bridge.Format)
	}

	if c.Bridge.Timeout < 0 {
		return fmt.Errorf("bridge.timeout cannot be negative")
	}

	if c.Refresh.Interval < 0 {
		return fmt.Errorf("refresh.interval cannot be negative")
	}

	if c.Refresh.CompleteDelay < 0 {
		return fmt.Errorf("refresh.complete_delay cannot be negative")
	}

	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme %q is not a known theme (available: %v)", c.TUI.Theme, styles.ThemeNames())
	}

	return nil
}
