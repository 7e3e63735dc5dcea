package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/thingsbar/internal/thingsbar"
	"github.com/colonyops/thingsbar/pkg/iojson"
)

type CompleteCmd struct {
	flags *Flags
	app   *thingsbar.App

	json bool
}

// NewCompleteCmd creates a new complete command.
func NewCompleteCmd(flags *Flags, app *thingsbar.App) *CompleteCmd {
	return &CompleteCmd{flags: flags, app: app}
}

// Register adds the complete command to the application.
func (cmd *CompleteCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "complete",
		Aliases:   []string{"done"},
		Usage:     "Mark to-dos as completed",
		UsageText: "thingsbar complete <id> [id...]",
		Description: `Completes each to-do through the scripting bridge.

Ids are shown by 'thingsbar today'. All ids are attempted; the command fails if
any of them could not be completed.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print one JSON result per id",
				Destination: &cmd.json,
			},
		},
		ShellComplete: TaskIDCompleter(cmd.app),
		Action:        cmd.run,
	})
	return app
}

type completeResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (cmd *CompleteCmd) run(ctx context.Context, c *cli.Command) error {
	ids := c.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("at least one task id is required")
	}

	w := c.Root().Writer
	failed := 0
	for _, id := range ids {
		res := completeResult{ID: id, OK: true}
		if err := cmd.app.Tasks.Complete(ctx, id); err != nil {
			res.OK = false
			res.Error = err.Error()
			failed++
		}

		if cmd.json {
			if err := iojson.WriteLine(w, res); err != nil {
				return err
			}
			continue
		}
		if res.OK {
			_, _ = fmt.Fprintf(w, "completed %s\n", id)
		} else {
			_, _ = fmt.Fprintf(c.Root().ErrWriter, "failed %s: %s\n", id, res.Error)
		}
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d task(s) could not be completed", failed, len(ids)), 1)
	}
	return nil
}
