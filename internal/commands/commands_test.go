package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/thingsbar/internal/core/config"
	"github.com/colonyops/thingsbar/internal/core/settings"
	"github.com/colonyops/thingsbar/internal/core/things"
	"github.com/colonyops/thingsbar/internal/thingsbar"
	"github.com/colonyops/thingsbar/pkg/executil"
)

const todayLines = `{"id":"T1","name":"Buy milk","status":"open"}
{"id":"T2","name":"Call *mom*","status":"open"}
{"id":"T3","name":"Errand: post office","status":"open"}
`

type harness struct {
	flags *Flags
	app   *thingsbar.App
	rec   *executil.RecordingExecutor
	in    bytes.Buffer
	out   bytes.Buffer
	err   bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Panel.Hide = []string{"errand*"}

	h := &harness{
		flags: &Flags{DataDir: cfg.DataDir, Config: &cfg},
		rec: &executil.RecordingExecutor{
			Outputs: map[string][]byte{"osascript": []byte(todayLines)},
		},
	}
	h.app = thingsbar.NewApp(&cfg, h.rec, thingsbar.BuildInfo{Version: "dev"}, zerolog.Nop())
	return h
}

// run executes args against a root command with every subcommand registered.
// Exit coders are returned instead of terminating the test binary.
func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()

	root := &cli.Command{
		Name:           "thingsbar",
		Reader:         &h.in,
		Writer:         &h.out,
		ErrWriter:      &h.err,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	root = NewTodayCmd(h.flags, h.app).Register(root)
	root = NewCompleteCmd(h.flags, h.app).Register(root)
	root = NewOpenCmd(h.flags, h.app).Register(root)
	root = NewSettingsCmd(h.flags, h.app).Register(root)
	root = NewConfigValidateCmd(h.flags).Register(root)
	root = NewDoctorCmd(h.flags, h.app).Register(root)

	return root.Run(context.Background(), append([]string{"thingsbar"}, args...))
}

func TestTodayCmd_JSON(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "today", "--json"))

	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	require.Len(t, lines, 2)

	var first things.Task
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "T1", first.ID)
	assert.Equal(t, "Buy milk", first.Name)
}

func TestTodayCmd_MarkdownWhenNotATerminal(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "today"))

	assert.Equal(t, "# Today\n\n- [ ] Buy milk `T1`\n- [ ] Call \\*mom\\* `T2`\n", h.out.String())
}

func TestTodayCmd_BridgeFailure(t *testing.T) {
	h := newHarness(t)
	h.rec.Errors = map[string]error{"osascript": errors.New("exit status 1")}

	err := h.run(t, "today")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list today")
}

func TestTodayMarkdown_Empty(t *testing.T) {
	assert.Equal(t, "# Today\n\n_Nothing left for today._\n", todayMarkdown(nil))
}

func TestRenderMarkdown(t *testing.T) {
	out, err := renderMarkdown(todayMarkdown([]things.Task{{ID: "T1", Name: "Buy milk"}}), 60)
	require.NoError(t, err)
	assert.Contains(t, out, "Buy milk")
}

func TestCompleteCmd(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "complete", "T1", "T2"))

	cmds := h.rec.Recorded()
	require.Len(t, cmds, 2)
	assert.Equal(t, []string{"complete", "T1"}, cmds[0].Args[3:])
	assert.Equal(t, []string{"complete", "T2"}, cmds[1].Args[3:])
	assert.Equal(t, "completed T1\ncompleted T2\n", h.out.String())
}

func TestCompleteCmd_ReportsFailures(t *testing.T) {
	h := newHarness(t)
	h.rec.Errors = map[string]error{"osascript": errors.New("exit status 1")}

	err := h.run(t, "complete", "--json", "T1")
	require.Error(t, err)

	var res completeResult
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &res))
	assert.Equal(t, "T1", res.ID)
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "exit status 1")
}

func TestCompleteCmd_RequiresID(t *testing.T) {
	h := newHarness(t)
	assert.Error(t, h.run(t, "complete"))
	assert.Empty(t, h.rec.Recorded())
}

func TestOpenCmd(t *testing.T) {
	t.Run("task", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run(t, "open", "T1"))

		cmds := h.rec.Recorded()
		require.NotEmpty(t, cmds)
		last := cmds[len(cmds)-1]
		assert.Equal(t, "open", last.Cmd)
		assert.Equal(t, []string{"things:///show?id=T1"}, last.Args)
		assert.Equal(t, "things:///show?id=T1\n", h.out.String())
	})

	t.Run("today list", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run(t, "open"))

		cmds := h.rec.Recorded()
		require.Len(t, cmds, 1)
		assert.Equal(t, []string{things.TodayURL}, cmds[0].Args)
	})
}

func TestSettingsCmd_SetAndShow(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "settings", "set", "--token", "secret-token"))

	saved, err := h.app.Settings.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, settings.Settings{Token: "secret-token"}, saved)

	h.out.Reset()
	require.NoError(t, h.run(t, "settings", "show"))
	assert.JSONEq(t, `{"token":"********oken"}`, h.out.String())

	h.out.Reset()
	require.NoError(t, h.run(t, "settings", "show", "--reveal"))
	assert.JSONEq(t, `{"token":"secret-token"}`, h.out.String())
}

func TestSettingsCmd_ImportFromStdin(t *testing.T) {
	h := newHarness(t)
	h.in.WriteString(`{"token":"piped"}`)

	require.NoError(t, h.run(t, "settings", "import"))

	saved, err := h.app.Settings.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "piped", saved.Token)
}

func TestSettingsCmd_ImportRejectsUnknownFields(t *testing.T) {
	h := newHarness(t)
	h.in.WriteString(`{"tokn":"typo"}`)

	err := h.run(t, "settings", "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "", maskToken(""))
	assert.Equal(t, "***", maskToken("abc"))
	assert.Equal(t, "**cdef", maskToken("abcdef"))
}

func TestConfigValidateCmd(t *testing.T) {
	t.Run("invalid hide pattern", func(t *testing.T) {
		h := newHarness(t)
		h.flags.Config.Panel.Hide = []string{"[unclosed"}

		err := h.run(t, "config", "validate", "--format", "json")
		require.Error(t, err)

		var report validationReport
		require.NoError(t, json.Unmarshal(h.out.Bytes(), &report))
		assert.False(t, report.Valid)
		require.NotEmpty(t, report.Errors)

		fields := make([]string, 0, len(report.Errors))
		for _, fe := range report.Errors {
			fields = append(fields, fe.Field)
		}
		assert.Contains(t, strings.Join(fields, ","), "panel.hide")
	})

	t.Run("disabled tick is a warning", func(t *testing.T) {
		h := newHarness(t)
		h.flags.Config.Refresh.Interval = 0

		report := buildValidationReport(h.flags.Config, "")
		found := false
		for _, w := range report.Warnings {
			if w.Item == "interval" {
				found = true
			}
		}
		assert.True(t, found)
	})
}

func TestDoctorCmd_OnlyConfigurationJSON(t *testing.T) {
	h := newHarness(t)
	h.flags.Config.Panel.Hide = []string{"[unclosed"}

	err := h.run(t, "doctor", "--format", "json", "--only", "configuration")
	require.Error(t, err)

	var out struct {
		Healthy bool `json:"healthy"`
		Checks  []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &out))
	assert.False(t, out.Healthy)
	require.Len(t, out.Checks, 1)
	assert.Equal(t, "Configuration", out.Checks[0].Name)
}

func TestDoctorCmd_RejectsUnknownFormat(t *testing.T) {
	h := newHarness(t)

	err := h.run(t, "doctor", "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
