package things

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/thingsbar/pkg/executil"
)

func newTestBridge(rec *executil.RecordingExecutor, cfg BridgeConfig) *Bridge {
	if cfg.Interpreter == "" {
		cfg.Interpreter = "osascript"
		cfg.InterpreterArgs = []string{"-l", "JavaScript"}
	}
	if cfg.Script == "" {
		cfg.Script = "/data/bin/things.js"
	}
	return NewBridge(rec, cfg, zerolog.Nop())
}

func TestBridge_TodayJSON(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{
			"osascript": []byte(`{"id":"T1","name":"Buy milk","status":"open"}` + "\n"),
		},
	}
	b := newTestBridge(rec, BridgeConfig{})

	tasks, err := b.Today(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Name)

	cmds := rec.Recorded()
	require.Len(t, cmds, 1)
	assert.Equal(t, "osascript", cmds[0].Cmd)
	assert.Equal(t, []string{"-l", "JavaScript", "/data/bin/things.js", "today", "json"}, cmds[0].Args)
}

func TestBridge_TodayHTML(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{
			"osascript": []byte(`<ul><input type="checkbox" class="things-today-checkbox" tid="T1"><div><a href="things:///show?id=T1">Buy milk</a></div></ul>`),
		},
	}
	b := newTestBridge(rec, BridgeConfig{Format: FormatHTML})

	tasks, err := b.Today(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "T1", tasks[0].ID)
	assert.Equal(t, "html", rec.Recorded()[0].Args[4])
}

func TestBridge_TodayError(t *testing.T) {
	boom := errors.New("boom")
	rec := &executil.RecordingExecutor{Errors: map[string]error{"osascript": boom}}
	b := newTestBridge(rec, BridgeConfig{})

	_, err := b.Today(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "list today")
}

func TestBridge_Complete(t *testing.T) {
	rec := &executil.RecordingExecutor{}
	b := newTestBridge(rec, BridgeConfig{})

	require.NoError(t, b.Complete(context.Background(), "T1"))
	require.ErrorIs(t, b.Complete(context.Background(), "  "), ErrEmptyID)

	cmds := rec.Recorded()
	require.Len(t, cmds, 1, "empty id never reaches the interpreter")
	assert.Equal(t, []string{"-l", "JavaScript", "/data/bin/things.js", "complete", "T1"}, cmds[0].Args)
}

func TestBridge_Timeout(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Handler: func(ctx context.Context, _ executil.RecordedCommand) ([]byte, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	b := newTestBridge(rec, BridgeConfig{Timeout: 20 * time.Millisecond})

	start := time.Now()
	err := b.Complete(context.Background(), "T1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestBridge_Open(t *testing.T) {
	rec := &executil.RecordingExecutor{}
	b := newTestBridge(rec, BridgeConfig{})

	require.NoError(t, b.Open(context.Background(), Task{ID: "T1"}))
	require.ErrorIs(t, b.Open(context.Background(), Task{}), ErrEmptyID)

	cmds := rec.Recorded()
	require.Len(t, cmds, 1)
	assert.Equal(t, "open", cmds[0].Cmd)
	assert.Equal(t, []string{"things:///show?id=T1"}, cmds[0].Args)
}

func TestBridge_OpenURL(t *testing.T) {
	rec := &executil.RecordingExecutor{}
	b := newTestBridge(rec, BridgeConfig{Opener: "xdg-open"})

	require.NoError(t, b.OpenURL(context.Background(), TodayURL))

	cmds := rec.Recorded()
	require.Len(t, cmds, 1)
	assert.Equal(t, "xdg-open", cmds[0].Cmd)
	assert.Equal(t, []string{"things:///show?id=today"}, cmds[0].Args)
}

func TestBridge_Check(t *testing.T) {
	script := filepath.Join(t.TempDir(), "things.js")
	require.NoError(t, os.WriteFile(script, []byte("// bridge"), 0o755))

	found := func(file string) (string, error) { return "/usr/bin/" + file, nil }
	missing := func(file string) (string, error) { return "", errors.New("not found") }

	t.Run("supported", func(t *testing.T) {
		b := newTestBridge(&executil.RecordingExecutor{}, BridgeConfig{Script: script})
		b.lookPath = found
		assert.NoError(t, b.Check())
	})

	t.Run("interpreter missing", func(t *testing.T) {
		b := newTestBridge(&executil.RecordingExecutor{}, BridgeConfig{Script: script})
		b.lookPath = missing
		err := b.Check()
		require.ErrorIs(t, err, ErrUnsupported)
		assert.Contains(t, err.Error(), "osascript")
	})

	t.Run("script missing", func(t *testing.T) {
		b := newTestBridge(&executil.RecordingExecutor{}, BridgeConfig{Script: filepath.Join(t.TempDir(), "nope.js")})
		b.lookPath = found
		require.ErrorIs(t, b.Check(), ErrUnsupported)
	})

	t.Run("script is a directory", func(t *testing.T) {
		b := newTestBridge(&executil.RecordingExecutor{}, BridgeConfig{Script: t.TempDir()})
		b.lookPath = found
		require.ErrorIs(t, b.Check(), ErrUnsupported)
	})
}

func TestBridge_RealProcess(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "bridge.sh")
	body := `#!/bin/sh
case "$1" in
  today) echo '{"id":"T1","name":"Buy milk"}'; echo '{"id":"T2","name":"Walk dog"}' ;;
  complete) echo "completing $2" >&2 ;;
esac
`
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))

	b := NewBridge(&executil.RealExecutor{}, BridgeConfig{
		Interpreter: "sh",
		Script:      script,
	}, zerolog.Nop())

	tasks, err := b.Today(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Walk dog", tasks[1].Name)

	require.NoError(t, b.Complete(context.Background(), "T1"))
}

func TestBridge_LogsCallID(t *testing.T) {
	var buf bytes.Buffer
	rec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{"osascript": []byte("")},
	}
	b := NewBridge(rec, BridgeConfig{
		Interpreter: "osascript",
		Script:      "/data/bin/things.js",
	}, zerolog.New(&buf).Level(zerolog.DebugLevel))

	_, err := b.Today(context.Background())
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	ids := make([]string, 0, 2)
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		assert.Equal(t, "today", entry["verb"])
		id, _ := entry["call_id"].(string)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Equal(t, ids[0], ids[1])
}
