package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/thingsbar/internal/core/config"
	"github.com/colonyops/thingsbar/internal/core/logging"
	"github.com/colonyops/thingsbar/internal/profiler"
	"github.com/colonyops/thingsbar/internal/thingsbar"
	"github.com/colonyops/thingsbar/internal/tui"
	"github.com/colonyops/thingsbar/pkg/iojson"
	"github.com/colonyops/thingsbar/pkg/utils"
)

type TuiCmd struct {
	flags *Flags
	app   *thingsbar.App

	noReload bool
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *thingsbar.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("THINGSBAR_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
		&cli.BoolFlag{
			Name:        "no-reload",
			Usage:       "do not reload the panel when the config file changes",
			Destination: &cmd.noReload,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, c *cli.Command) error {
	// Notices are held until the panel releases the terminal.
	notices := &utils.DeferredWriter{}
	defer func() { _ = notices.Flush(c.Root().ErrWriter) }()

	stop, err := startProfiler(ctx, cmd.flags.ProfilerPort, cmd.app.Build)
	if err != nil {
		return err
	}
	defer stop()

	if err := cmd.app.Bridge.Check(); err != nil {
		// The panel still opens so the failure shows up as a toast on refresh.
		log.Warn().Err(err).Msg("things bridge unavailable")
		notices.Notef("warning: things bridge unavailable: %v", err)
	}

	cfg := cmd.app.Config
	deps := tui.Deps{
		Source: cmd.app.Bridge,
		Opener: cmd.app.Bridge,
		Logger: logging.Component("tui"),
	}

	if !cmd.noReload {
		w, err := config.NewWatcher(cmd.flags.ConfigPath, cmd.flags.DataDir, logging.Component("config"))
		if err != nil {
			log.Warn().Err(err).Msg("config hot reload disabled")
			notices.Notef("warning: config hot reload disabled: %v", err)
		} else {
			defer func() { _ = w.Close() }()
			deps.ConfigUpdates = w
		}
	}

	m := tui.New(deps, tui.Options{
		RefreshInterval: cfg.Refresh.Interval,
		CompleteDelay:   cfg.Refresh.CompleteDelay,
		Hide:            cfg.Panel.Hide,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}

// startProfiler starts the pprof endpoint when port is set. The returned func
// shuts it down.
func startProfiler(ctx context.Context, port int, build thingsbar.BuildInfo) (func(), error) {
	if port <= 0 {
		return func() {}, nil
	}

	srv := profiler.New(port, logging.Component("profiler"))
	srv.Handle("/debug/build", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = iojson.WriteLine(w, build)
	}))
	if err := srv.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}
	log.Info().
		Str("url", fmt.Sprintf("http://%s/debug/pprof/", srv.Addr())).
		Msg("profiler endpoint available")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown profiler server")
		}
	}, nil
}
