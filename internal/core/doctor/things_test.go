package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/thingsbar/internal/core/things"
)

type fakeProber struct {
	checkErr error
	tasks    []things.Task
	todayErr error
}

func (f fakeProber) Check() error { return f.checkErr }

func (f fakeProber) Today(context.Context) ([]things.Task, error) {
	return f.tasks, f.todayErr
}

func stubPlatform(t *testing.T, os string, bundles ...string) {
	t.Helper()
	origOS, origPaths := goos, appBundlePaths
	t.Cleanup(func() { goos, appBundlePaths = origOS, origPaths })

	goos = os
	appBundlePaths = func() []string { return bundles }
}

func TestThingsCheck_Healthy(t *testing.T) {
	app := filepath.Join(t.TempDir(), "Things3.app")
	require.NoError(t, os.Mkdir(app, 0o755))
	stubPlatform(t, "darwin", app)

	prober := fakeProber{tasks: []things.Task{{ID: "T1", Name: "Buy milk"}}}
	result := NewThingsCheck(prober).Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, app, result.Items[0].Detail)
	assert.Equal(t, StatusPass, result.Items[1].Status)
	assert.Equal(t, "1 task(s)", result.Items[1].Detail)
}

func TestThingsCheck_AppMissing(t *testing.T) {
	stubPlatform(t, "darwin", filepath.Join(t.TempDir(), "nope.app"))

	result := NewThingsCheck(fakeProber{}).Run(context.Background())

	assert.Equal(t, StatusFail, result.Items[0].Status)
}

func TestThingsCheck_UnsupportedOffMac(t *testing.T) {
	stubPlatform(t, "linux")

	prober := fakeProber{checkErr: fmt.Errorf("%w: interpreter %q not found on PATH", things.ErrUnsupported, "osascript")}
	result := NewThingsCheck(prober).Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusWarn, result.Items[0].Status)
	assert.Equal(t, StatusWarn, result.Items[1].Status)
	assert.Contains(t, result.Items[1].Detail, "osascript")
}

func TestThingsCheck_UnsupportedOnMacFails(t *testing.T) {
	app := filepath.Join(t.TempDir(), "Things3.app")
	require.NoError(t, os.Mkdir(app, 0o755))
	stubPlatform(t, "darwin", app)

	prober := fakeProber{checkErr: fmt.Errorf("%w: script missing", things.ErrUnsupported)}
	result := NewThingsCheck(prober).Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusFail, result.Items[1].Status)
}

func TestThingsCheck_TodayFails(t *testing.T) {
	stubPlatform(t, "linux")

	prober := fakeProber{todayErr: errors.New("list today: timed out after 10s")}
	result := NewThingsCheck(prober).Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, "today", result.Items[1].Label)
	assert.Equal(t, StatusFail, result.Items[1].Status)
	assert.Contains(t, result.Items[1].Detail, "timed out")
}
