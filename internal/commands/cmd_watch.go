package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/thingsbar/internal/core/config"
	"github.com/colonyops/thingsbar/internal/core/logging"
	"github.com/colonyops/thingsbar/internal/core/notify"
	"github.com/colonyops/thingsbar/internal/thingsbar"
	"github.com/colonyops/thingsbar/pkg/iojson"
)

type WatchCmd struct {
	flags *Flags
	app   *thingsbar.App

	json     bool
	all      bool
	interval time.Duration
	noReload bool
}

// NewWatchCmd creates a new watch command.
func NewWatchCmd(flags *Flags, app *thingsbar.App) *WatchCmd {
	return &WatchCmd{flags: flags, app: app}
}

// Register adds the watch command to the application.
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Print the Today list whenever it changes",
		UsageText: "thingsbar watch [options]",
		Description: `Refreshes the Today list on the configured interval and prints it when it
changes, for status bars and scripts.

Send SIGUSR1 to force a refresh. Editing the config file applies new hide
patterns and interval without a restart.

Examples:
  thingsbar watch --json
  pkill -USR1 -f 'thingsbar watch'`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print each snapshot as one JSON line",
				Destination: &cmd.json,
			},
			&cli.BoolFlag{
				Name:        "all",
				Usage:       "print every refresh, not only changes",
				Destination: &cmd.all,
			},
			&cli.DurationFlag{
				Name:        "interval",
				Usage:       "override refresh.interval from the config",
				Destination: &cmd.interval,
			},
			&cli.BoolFlag{
				Name:        "no-reload",
				Usage:       "ignore config file changes",
				Destination: &cmd.noReload,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval := cmd.app.Config.Refresh.Interval
	if cmd.interval > 0 {
		interval = cmd.interval
	}

	bus := notify.NewBus()
	bus.Subscribe(logNotification)

	w := thingsbar.NewWatcher(cmd.app.Tasks, interval, bus, log.Logger)

	stopRefresh := onRefreshSignal(w.Refresh)
	defer stopRefresh()

	if !cmd.noReload {
		if cw, err := config.NewWatcher(cmd.flags.ConfigPath, cmd.flags.DataDir, logging.Component("config")); err != nil {
			log.Warn().Err(err).Msg("config hot reload disabled")
		} else {
			defer func() { _ = cw.Close() }()
			go cmd.reloadLoop(ctx, cw, w, bus)
		}
	}

	out := c.Root().Writer
	return w.Run(ctx, func(s thingsbar.Snapshot) error {
		if !s.Changed && !cmd.all {
			return nil
		}
		return cmd.print(out, s)
	})
}

// reloadLoop applies config changes until ctx is done. A --interval flag keeps
// overriding the file.
func (cmd *WatchCmd) reloadLoop(ctx context.Context, cw *config.Watcher, w *thingsbar.Watcher, bus *notify.Bus) {
	for {
		cfg, err := cw.Next(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if errors.Is(err, config.ErrWatcherClosed) {
				return
			}
			bus.Warnf("Config not reloaded: %v", err)
			continue
		}

		interval := cfg.Refresh.Interval
		if cmd.interval > 0 {
			interval = cmd.interval
		}
		w.Reconfigure(cfg.Panel.Hide, interval)
		bus.Infof("Config reloaded")
	}
}

func (cmd *WatchCmd) print(w io.Writer, s thingsbar.Snapshot) error {
	if cmd.json {
		out := struct {
			thingsbar.Snapshot
			Error string `json:"error,omitempty"`
		}{Snapshot: s}
		if s.Err != nil {
			out.Error = s.Err.Error()
		}
		return iojson.WriteLine(w, out)
	}

	if s.Err != nil {
		_, err := fmt.Fprintf(w, "refresh failed: %v\n\n", s.Err)
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d)\n", time.Now().Format(time.TimeOnly), len(s.Tasks))
	for _, t := range s.Tasks {
		fmt.Fprintf(&b, "[ ] %s  %s\n", t.Name, t.ID)
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func logNotification(n notify.Notification) {
	ev := log.Info()
	switch n.Level {
	case notify.LevelWarning:
		ev = log.Warn()
	case notify.LevelError:
		ev = log.Error()
	}
	ev.Int64("id", n.ID).Msg(n.Message)
}
