package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/thingsbar/internal/scripts"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), dataDir)
	require.NoError(t, err)

	want := DefaultConfig()
	want.DataDir = dataDir
	assert.Equal(t, &want, cfg)
	assert.Equal(t, 5*time.Minute, cfg.Refresh.Interval)
	assert.Equal(t, 3*time.Second, cfg.Refresh.CompleteDelay)
	assert.Equal(t, 10*time.Second, cfg.Bridge.Timeout)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "osascript", cfg.Bridge.Interpreter)
}

func TestLoad_OverridesFromFile(t *testing.T) {
	path := writeConfig(t, `
bridge:
  format: html
  timeout: 2s
refresh:
  interval: 30s
  complete_delay: 1500ms
panel:
  hide:
    - "*someday*"
tui:
  theme: gruvbox
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "html", cfg.Bridge.Format)
	assert.Equal(t, 2*time.Second, cfg.Bridge.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Refresh.Interval)
	assert.Equal(t, 1500*time.Millisecond, cfg.Refresh.CompleteDelay)
	assert.Equal(t, []string{"*someday*"}, cfg.Panel.Hide)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
	assert.Equal(t, "osascript", cfg.Bridge.Interpreter, "unset fields keep defaults")
}

func TestLoad_ZeroIntervalDisablesTick(t *testing.T) {
	path := writeConfig(t, "refresh:\n  interval: 0s\n")

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Refresh.Interval)
	assert.Equal(t, 3*time.Second, cfg.Refresh.CompleteDelay)
}

func TestLoad_CustomInterpreterKeepsArgs(t *testing.T) {
	path := writeConfig(t, "bridge:\n  interpreter: node\n  interpreter_args: []\n")

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "node", cfg.Bridge.Interpreter)
	assert.Empty(t, cfg.Bridge.InterpreterArgs)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "bad yaml", body: "bridge: [", wantErr: "parse config file"},
		{name: "bad format", body: "bridge:\n  format: xml\n", wantErr: "bridge.format"},
		{name: "negative interval", body: "refresh:\n  interval: -1s\n", wantErr: "refresh.interval"},
		{name: "unknown theme", body: "tui:\n  theme: neon\n", wantErr: "tui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_EmptyDataDir(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data directory")
}

func TestScriptPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data"
	assert.Equal(t, scripts.ThingsScriptPath("/data"), cfg.ScriptPath())

	cfg.Bridge.Script = "/custom/things.js"
	assert.Equal(t, "/custom/things.js", cfg.ScriptPath())
}
