package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/thingsbar/internal/core/things"
	"github.com/colonyops/thingsbar/internal/thingsbar"
)

type OpenCmd struct {
	flags *Flags
	app   *thingsbar.App
}

// NewOpenCmd creates a new open command.
func NewOpenCmd(flags *Flags, app *thingsbar.App) *OpenCmd {
	return &OpenCmd{flags: flags, app: app}
}

// Register adds the open command to the application.
func (cmd *OpenCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "open",
		Usage:     "Reveal a to-do, or the Today list, in Things",
		UsageText: "thingsbar open [id]",
		Description: `Opens the things:// deep link for a to-do with the configured opener.
Without an id the Today list is opened.`,
		ShellComplete: TaskIDCompleter(cmd.app),
		Action:        cmd.run,
	})
	return app
}

func (cmd *OpenCmd) run(ctx context.Context, c *cli.Command) error {
	w := c.Root().Writer

	if c.Args().Len() == 0 {
		if err := cmd.app.Bridge.OpenURL(ctx, things.TodayURL); err != nil {
			return fmt.Errorf("open today: %w", err)
		}
		_, _ = fmt.Fprintln(w, things.TodayURL)
		return nil
	}

	task, err := cmd.app.Tasks.Open(ctx, c.Args().First())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, task.URL())
	return nil
}
