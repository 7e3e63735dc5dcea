package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/thingsbar/internal/core/styles"
	"github.com/colonyops/thingsbar/internal/core/things"
)

// Panel is the rendered Today list. It never merges: every Render replaces
// the list wholesale with what the task source returned.
type Panel struct {
	tasks  []things.Task
	hide   []string
	cursor int
}

// NewPanel returns an empty panel that drops tasks matching the hide globs.
func NewPanel(hide []string) *Panel {
	return &Panel{hide: hide}
}

// Render replaces the list with tasks, minus hidden and completed ones.
// The cursor stays on the same task when it is still present.
func (p *Panel) Render(tasks []things.Task) {
	selected, hadSelection := p.Selected()

	visible := things.Hide(tasks, p.hide)
	next := make([]things.Task, 0, len(visible))
	for _, t := range visible {
		if !t.Completed() {
			next = append(next, t)
		}
	}
	p.tasks = next

	if hadSelection {
		if i := p.indexOf(selected.ID); i >= 0 {
			p.cursor = i
			return
		}
	}
	p.clampCursor()
}

// SetHide replaces the hide globs. They apply from the next Render.
func (p *Panel) SetHide(hide []string) {
	p.hide = hide
}

// Tasks returns a copy of the visible tasks in display order.
func (p *Panel) Tasks() []things.Task {
	return slices.Clone(p.tasks)
}

// Len returns the number of visible tasks.
func (p *Panel) Len() int {
	return len(p.tasks)
}

// Cursor returns the selected row index.
func (p *Panel) Cursor() int {
	return p.cursor
}

// Selected returns the task under the cursor.
func (p *Panel) Selected() (things.Task, bool) {
	if p.cursor < 0 || p.cursor >= len(p.tasks) {
		return things.Task{}, false
	}
	return p.tasks[p.cursor], true
}

// MoveUp moves the cursor up one row, stopping at the top.
func (p *Panel) MoveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// MoveDown moves the cursor down one row, stopping at the bottom.
func (p *Panel) MoveDown() {
	if p.cursor < len(p.tasks)-1 {
		p.cursor++
	}
}

// Remove takes the task with id out of the list and reports where it was.
func (p *Panel) Remove(id string) (things.Task, int, bool) {
	i := p.indexOf(id)
	if i < 0 {
		return things.Task{}, -1, false
	}
	t := p.tasks[i]
	p.tasks = slices.Delete(p.tasks, i, i+1)
	p.clampCursor()
	return t, i, true
}

// Insert puts t back at index, clamped to the list bounds. The cursor stays
// on the task it was on. It is a no-op when a refresh has already brought the
// task back.
func (p *Panel) Insert(t things.Task, index int) {
	if p.indexOf(t.ID) >= 0 {
		return
	}
	selected, hadSelection := p.Selected()

	index = max(0, min(index, len(p.tasks)))
	p.tasks = slices.Insert(p.tasks, index, t)

	if hadSelection {
		p.cursor = p.indexOf(selected.ID)
		return
	}
	p.cursor = 0
}

// View renders one row per task. width <= 0 disables truncation.
func (p *Panel) View(width int) string {
	rows := make([]string, 0, len(p.tasks))
	for i, t := range p.tasks {
		rows = append(rows, p.row(t, i == p.cursor, width))
	}
	return strings.Join(rows, "\n")
}

func (p *Panel) row(t things.Task, selected bool, width int) string {
	cursor := "  "
	nameStyle := styles.TaskStyle
	if selected {
		cursor = styles.TaskCursorStyle.Render("> ")
		nameStyle = styles.TaskSelectedStyle
	}

	name := t.Name
	if width > 0 {
		// cursor + checkbox + space
		name = ansi.Truncate(name, max(width-6, 1), "…")
	}

	return cursor + styles.TaskCheckboxStyle.Render("[ ]") + " " + nameStyle.Render(name)
}

func (p *Panel) indexOf(id string) int {
	return slices.IndexFunc(p.tasks, func(t things.Task) bool { return t.ID == id })
}

func (p *Panel) clampCursor() {
	p.cursor = max(0, min(p.cursor, len(p.tasks)-1))
}
