package thingsbar

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/colonyops/thingsbar/internal/core/config"
	"github.com/colonyops/thingsbar/internal/core/doctor"
	"github.com/colonyops/thingsbar/internal/scripts"
)

// DoctorService runs health checks on the thingsbar setup.
type DoctorService struct {
	config  *config.Config
	bridge  doctor.Prober
	version string
}

// NewDoctorService creates a new DoctorService.
func NewDoctorService(cfg *config.Config, bridge doctor.Prober, version string) *DoctorService {
	return &DoctorService{
		config:  cfg,
		bridge:  bridge,
		version: version,
	}
}

// DoctorOptions selects and bounds the checks RunChecks performs.
type DoctorOptions struct {
	ConfigPath string
	Autofix    bool
	// Timeout bounds each check. Zero uses doctor.DefaultTimeout.
	Timeout time.Duration
	// Only limits the run to checks with these names, compared case
	// insensitively. Empty runs every check.
	Only []string
}

// RunChecks executes the doctor checks and returns their results. The Things
// probe runs after the setup checks because autofix may restore the script
// it depends on.
func (d *DoctorService) RunChecks(ctx context.Context, opts DoctorOptions) []doctor.Result {
	setup := filterChecks([]doctor.Check{
		doctor.NewConfigCheck(d.config, opts.ConfigPath),
		doctor.NewToolsCheck(d.config.Bridge.Interpreter, d.config.Bridge.Opener),
		doctor.NewScriptCheck(d.config.ScriptPath(), d.extractFunc(), opts.Autofix),
	}, opts.Only)
	probe := filterChecks([]doctor.Check{doctor.NewThingsCheck(d.bridge)}, opts.Only)

	results := doctor.RunAll(ctx, setup, opts.Timeout)
	return append(results, doctor.RunAll(ctx, probe, opts.Timeout)...)
}

// CheckNames lists every check RunChecks knows, in run order.
func CheckNames() []string {
	return []string{"Configuration", "Dependencies", "Bridge Script", "Things"}
}

func filterChecks(checks []doctor.Check, only []string) []doctor.Check {
	if len(only) == 0 {
		return checks
	}
	return slices.DeleteFunc(checks, func(c doctor.Check) bool {
		return !slices.ContainsFunc(only, func(name string) bool {
			return strings.EqualFold(strings.TrimSpace(name), c.Name())
		})
	})
}

// extractFunc restores the bundled script. A user-supplied script cannot be
// restored, so it gets nil.
func (d *DoctorService) extractFunc() func() error {
	if d.config.Bridge.Script != "" {
		return nil
	}
	return func() error {
		return scripts.EnsureExtracted(d.config.DataDir, d.version)
	}
}
