package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/colonyops/thingsbar/internal/core/things"
)

// appBundlePaths returns where Things 3 is looked for. Package-level
// variable to allow test overrides.
var appBundlePaths = func() []string {
	paths := []string{"/Applications/Things3.app"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "Applications", "Things3.app"))
	}
	return paths
}

// goos is runtime.GOOS, overridable in tests.
var goos = runtime.GOOS

// Prober is the part of the bridge the Things check exercises.
type Prober interface {
	Check() error
	Today(ctx context.Context) ([]things.Task, error)
}

// ThingsCheck looks for the Things app and makes one live Today call through
// the bridge.
type ThingsCheck struct {
	bridge Prober
}

// NewThingsCheck creates a Things check probing through bridge.
func NewThingsCheck(bridge Prober) *ThingsCheck {
	return &ThingsCheck{bridge: bridge}
}

func (c *ThingsCheck) Name() string {
	return "Things"
}

func (c *ThingsCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}
	result.Items = append(result.Items, c.appItem())

	if err := c.bridge.Check(); err != nil {
		status := StatusFail
		if errors.Is(err, things.ErrUnsupported) && goos != "darwin" {
			status = StatusWarn
		}
		result.Items = append(result.Items, CheckItem{
			Label:  "bridge",
			Status: status,
			Detail: err.Error(),
		})
		return result
	}

	tasks, err := c.bridge.Today(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "today",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "today",
		Status: StatusPass,
		Detail: fmt.Sprintf("%d task(s)", len(tasks)),
	})
	return result
}

func (c *ThingsCheck) appItem() CheckItem {
	if goos != "darwin" {
		return CheckItem{
			Label:  "Things3.app",
			Status: StatusWarn,
			Detail: "Things runs on macOS only",
		}
	}

	for _, p := range appBundlePaths() {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return CheckItem{Label: "Things3.app", Status: StatusPass, Detail: p}
		}
	}
	return CheckItem{
		Label:  "Things3.app",
		Status: StatusFail,
		Detail: "not installed in /Applications or ~/Applications",
	}
}
