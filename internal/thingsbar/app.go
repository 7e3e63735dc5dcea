// Package thingsbar wires configuration, the Things bridge and the services
// that commands and the panel consume.
package thingsbar

import (
	"github.com/rs/zerolog"

	"github.com/colonyops/thingsbar/internal/core/config"
	"github.com/colonyops/thingsbar/internal/core/logging"
	"github.com/colonyops/thingsbar/internal/core/settings"
	"github.com/colonyops/thingsbar/internal/core/things"
	"github.com/colonyops/thingsbar/pkg/executil"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// App is the central entry point for all thingsbar operations.
// Commands and the TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Tasks    *TaskService
	Doctor   *DoctorService
	Settings *settings.Store

	Bridge *things.Bridge
	Config *config.Config
	Build  BuildInfo
}

// NewApp constructs an App from explicit dependencies.
func NewApp(cfg *config.Config, executor executil.Executor, build BuildInfo, log zerolog.Logger) *App {
	bridge := NewBridge(cfg, executor, log)

	return &App{
		Tasks:    NewTaskService(bridge, bridge, cfg.Panel.Hide, log),
		Doctor:   NewDoctorService(cfg, bridge, build.Version),
		Settings: settings.NewStore(settings.PathFor(cfg.DataDir)),
		Bridge:   bridge,
		Config:   cfg,
		Build:    build,
	}
}

// NewBridge builds the scripting bridge described by cfg.
func NewBridge(cfg *config.Config, executor executil.Executor, log zerolog.Logger) *things.Bridge {
	return things.NewBridge(executor, things.BridgeConfig{
		Interpreter:     cfg.Bridge.Interpreter,
		InterpreterArgs: cfg.Bridge.InterpreterArgs,
		Script:          cfg.ScriptPath(),
		Format:          things.Format(cfg.Bridge.Format),
		Timeout:         cfg.Bridge.Timeout,
		Opener:          cfg.Bridge.Opener,
	}, logging.Sub(log, "bridge"))
}
