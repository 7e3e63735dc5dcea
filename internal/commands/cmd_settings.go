package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/thingsbar/internal/core/settings"
	"github.com/colonyops/thingsbar/internal/core/styles"
	"github.com/colonyops/thingsbar/internal/thingsbar"
	"github.com/colonyops/thingsbar/pkg/iojson"
)

type SettingsCmd struct {
	flags *Flags
	app   *thingsbar.App

	reveal   bool
	token    string
	importer iojson.FileReader[settings.Settings]
}

// NewSettingsCmd creates a new settings command.
func NewSettingsCmd(flags *Flags, app *thingsbar.App) *SettingsCmd {
	return &SettingsCmd{flags: flags, app: app}
}

// Register adds the settings command to the application.
func (cmd *SettingsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "settings",
		Usage: "Show and change persisted settings",
		Description: `Settings are stored as JSON in <data-dir>/settings.json and survive
upgrades. Unlike the config file they are changed from the command line.`,
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Print the settings as JSON",
				UsageText: "thingsbar settings show [--reveal]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "reveal",
						Usage:       "print the token instead of a mask",
						Destination: &cmd.reveal,
					},
				},
				Action: cmd.runShow,
			},
			{
				Name:      "set",
				Usage:     "Set individual settings",
				UsageText: "thingsbar settings set --token <token>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "token",
						Usage:       "Things auth token",
						Required:    true,
						Destination: &cmd.token,
					},
				},
				Action: cmd.runSet,
			},
			{
				Name:      "edit",
				Usage:     "Edit the settings in an interactive form",
				UsageText: "thingsbar settings edit",
				Action:    cmd.runEdit,
			},
			{
				Name:      "import",
				Usage:     "Replace the settings from JSON",
				UsageText: "thingsbar settings import [-f file]",
				Description: `Reads a settings object from a file or stdin and saves it verbatim.

Example:
  echo '{"token":"abc"}' | thingsbar settings import`,
				Flags:  []cli.Flag{cmd.importer.Flag()},
				Action: cmd.runImport,
			},
		},
	})
	return app
}

func (cmd *SettingsCmd) runShow(ctx context.Context, c *cli.Command) error {
	v, err := cmd.app.Settings.Load(ctx)
	if err != nil {
		return err
	}
	if !cmd.reveal {
		v.Token = maskToken(v.Token)
	}
	return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, v)
}

func (cmd *SettingsCmd) runSet(ctx context.Context, c *cli.Command) error {
	if _, err := cmd.app.Settings.Update(ctx, func(s *settings.Settings) {
		s.Token = strings.TrimSpace(cmd.token)
	}); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "saved %s\n", cmd.app.Settings.Path())
	return nil
}

func (cmd *SettingsCmd) runEdit(ctx context.Context, c *cli.Command) error {
	v, err := cmd.app.Settings.Load(ctx)
	if err != nil {
		return err
	}

	token := v.Token
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Things token").
				Description("Auth token from Things > Settings > General > Enable Things URLs").
				EchoMode(huh.EchoModePassword).
				Value(&token),
		),
	).WithTheme(styles.FormTheme()).RunWithContext(ctx)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return fmt.Errorf("form: %w", err)
	}

	v.Token = strings.TrimSpace(token)
	if err := cmd.app.Settings.Save(ctx, v); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "saved %s\n", cmd.app.Settings.Path())
	return nil
}

func (cmd *SettingsCmd) runImport(ctx context.Context, c *cli.Command) error {

	v, err := cmd.importer.Read(c.Root().Reader)
	if err != nil {
		return err
	}
	if err := cmd.app.Settings.Save(ctx, v); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "saved %s\n", cmd.app.Settings.Path())
	return nil
}

// maskToken keeps the last four characters of long tokens.
func maskToken(token string) string {
	switch {
	case token == "":
		return ""
	case len(token) <= 4:
		return strings.Repeat("*", len(token))
	default:
		return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
	}
}
