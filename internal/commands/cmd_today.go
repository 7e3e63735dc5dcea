package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/thingsbar/internal/core/styles"
	"github.com/colonyops/thingsbar/internal/core/things"
	"github.com/colonyops/thingsbar/internal/thingsbar"
	"github.com/colonyops/thingsbar/pkg/iojson"
)

const defaultWrapWidth = 80

type TodayCmd struct {
	flags *Flags
	app   *thingsbar.App

	json bool
	raw  bool
}

// NewTodayCmd creates a new today command.
func NewTodayCmd(flags *Flags, app *thingsbar.App) *TodayCmd {
	return &TodayCmd{flags: flags, app: app}
}

// Register adds the today command to the application.
func (cmd *TodayCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "today",
		Usage:     "Print the Things Today list",
		UsageText: "thingsbar today [--json | --raw]",
		Description: `Prints the visible open to-dos in the Today list.

Output is a Markdown checklist, rendered for the terminal when stdout is a TTY.
Hide patterns from the config apply.

Examples:
  thingsbar today
  thingsbar today --json | jq -r .id`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print one JSON object per task",
				Destination: &cmd.json,
			},
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print Markdown without terminal rendering",
				Destination: &cmd.raw,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *TodayCmd) run(ctx context.Context, c *cli.Command) error {
	tasks, err := cmd.app.Tasks.Today(ctx)
	if err != nil {
		return fmt.Errorf("list today: %w", err)
	}

	w := c.Root().Writer
	if cmd.json {
		for _, t := range tasks {
			if err := iojson.WriteLine(w, t); err != nil {
				return err
			}
		}
		return nil
	}

	md := todayMarkdown(tasks)

	width, tty := terminalWidth(w)
	if cmd.raw || !tty {
		_, err := io.WriteString(w, md)
		return err
	}

	out, err := renderMarkdown(md, width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// todayMarkdown renders tasks as a Markdown checklist. Ids are kept next to the
// names so they can be passed to complete and open.
func todayMarkdown(tasks []things.Task) string {
	var b strings.Builder
	b.WriteString("# Today\n\n")

	if len(tasks) == 0 {
		b.WriteString("_Nothing left for today._\n")
		return b.String()
	}

	for _, t := range tasks {
		box := "[ ]"
		if t.Completed() {
			box = "[x]"
		}
		fmt.Fprintf(&b, "- %s %s `%s`\n", box, escapeMarkdown(t.Name), t.ID)
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	"#", `\#`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// terminalWidth reports whether w is a terminal and, if so, its width.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWrapWidth, true
	}
	return min(width, 120), true
}
