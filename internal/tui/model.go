// Package tui implements the Things Today panel as a Bubble Tea program.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/thingsbar/internal/core/config"
	"github.com/colonyops/thingsbar/internal/core/notify"
	"github.com/colonyops/thingsbar/internal/core/scheduler"
	"github.com/colonyops/thingsbar/internal/core/styles"
	"github.com/colonyops/thingsbar/internal/core/things"
)

// ViewType identifies the panel.
const ViewType = "things3-view"

const (
	panelHeader  = "Things3"
	refreshLabel = "[r] refresh"
)

// Refresher is the part of *scheduler.Scheduler the panel drives.
type Refresher interface {
	Schedule(delay time.Duration, notify bool, reason scheduler.Reason) uint64
	StartPeriodic(interval time.Duration)
	Stop()
	Latest() uint64
}

// ConfigSource delivers config reloads. *config.Watcher satisfies it.
type ConfigSource interface {
	Next(ctx context.Context) (*config.Config, error)
}

// Deps are the collaborators the panel talks to.
type Deps struct {
	Source        things.Source
	Opener        things.Opener // nil disables opening tasks
	ConfigUpdates ConfigSource  // nil disables hot reload
	Logger        zerolog.Logger
}

// Options tune the panel's refresh behavior.
type Options struct {
	RefreshInterval time.Duration // periodic tick; 0 disables
	CompleteDelay   time.Duration // reconciliation delay after a completion
	Hide            []string      // glob patterns for task names to hide

	// NewScheduler builds the refresh scheduler around fire. Nil uses scheduler.New.
	NewScheduler func(fire scheduler.FireFunc) Refresher
}

// Model is the panel's Bubble Tea model.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	source  things.Source
	opener  things.Opener
	updates ConfigSource
	log     zerolog.Logger
	opts    Options

	sched    Refresher
	requests *scheduler.Queue

	panel   *Panel
	keys    keyMap
	spinner spinner.Model
	loading bool
	loaded  bool
	lastErr error

	bus       *notify.Bus
	toasts    *ToastController
	toastView *ToastView

	width    int
	height   int
	quitting bool
}

// New builds the panel. Nothing runs until Init.
func New(deps Deps, opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	requests := scheduler.NewQueue()
	var sched Refresher
	if opts.NewScheduler != nil {
		sched = opts.NewScheduler(requests.Push)
	} else {
		sched = scheduler.New(requests.Push, scheduler.WithLogger(deps.Logger))
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.TextMutedStyle

	toastCtrl := NewToastController(defaultToastTTL)
	bus := notify.NewBus()
	bus.Subscribe(toastCtrl.Push)

	return Model{
		ctx:       ctx,
		cancel:    cancel,
		source:    deps.Source,
		opener:    deps.Opener,
		updates:   deps.ConfigUpdates,
		log:       deps.Logger,
		opts:      opts,
		sched:     sched,
		requests:  requests,
		panel:     NewPanel(opts.Hide),
		keys:      defaultKeyMap(),
		spinner:   s,
		bus:       bus,
		toasts:    toastCtrl,
		toastView: NewToastView(toastCtrl),
	}
}

// Init opens the panel: an immediate refresh plus the periodic tick.
func (m Model) Init() tea.Cmd {
	m.sched.StartPeriodic(m.opts.RefreshInterval)
	m.sched.Schedule(0, false, scheduler.ReasonOpen)
	return tea.Batch(listenRequests(m.ctx, m.requests), m.spinner.Tick, m.watchConfig())
}

func (m Model) watchConfig() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	return waitForConfig(m.ctx, m.updates)
}

// Close tears the panel down. Pending and periodic refreshes are cancelled and
// in-flight bridge processes are killed. Safe to call more than once.
func (m Model) Close() {
	m.sched.Stop()
	m.cancel()
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case refreshRequestMsg:
		return m.handleRefreshRequest(msg)
	case tasksLoadedMsg:
		return m.handleTasksLoaded(msg)
	case completeDoneMsg:
		return m.handleCompleteDone(msg)
	case openDoneMsg:
		return m.handleOpenDone(msg)
	case configReloadedMsg:
		return m.handleConfigReloaded(msg)
	case toastTickMsg:
		return m.handleToastTick(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleRefreshRequest(msg refreshRequestMsg) (tea.Model, tea.Cmd) {
	listen := listenRequests(m.ctx, m.requests)
	if msg.Gen != m.sched.Latest() {
		m.log.Debug().Uint64("gen", msg.Gen).Msg("dropping superseded refresh request")
		return m, listen
	}

	m.loading = true
	return m, tea.Batch(fetchToday(m.ctx, m.source, scheduler.Request(msg)), listen)
}

func (m Model) handleTasksLoaded(msg tasksLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.sched.Latest() {
		m.log.Debug().
			Uint64("gen", msg.Gen).
			Uint64("latest", m.sched.Latest()).
			Msg("discarding stale refresh result")
		return m, nil
	}

	m.loading = false

	if msg.Err != nil {
		if errors.Is(msg.Err, context.Canceled) {
			return m, nil
		}
		m.log.Error().Err(msg.Err).Uint64("gen", msg.Gen).Msg("refresh failed")
		// Periodic failures only toast on the transition from healthy.
		if msg.Notify || m.lastErr == nil {
			m.bus.Errorf("Refresh failed: %v", msg.Err)
		}
		m.lastErr = msg.Err
		return m, m.ensureToastTick()
	}

	m.lastErr = nil
	m.loaded = true
	m.panel.Render(msg.Tasks)
	m.log.Debug().Uint64("gen", msg.Gen).Int("tasks", m.panel.Len()).Msg("rendered today list")

	if msg.Notify {
		m.bus.Infof("Refreshed")
	}
	return m, m.ensureToastTick()
}

func (m Model) handleCompleteDone(msg completeDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err == nil {
		m.log.Info().Str("task", msg.Task.ID).Msg("task completed")
		return m, nil
	}

	m.log.Error().Err(msg.Err).Str("task", msg.Task.ID).Msg("complete failed")
	m.panel.Insert(msg.Task, msg.Index)
	m.bus.Errorf("Could not complete %q: %v", msg.Task.Name, msg.Err)
	return m, m.ensureToastTick()
}

func (m Model) handleOpenDone(msg openDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err == nil {
		return m, nil
	}
	m.log.Error().Err(msg.Err).Str("task", msg.Task.ID).Msg("open failed")
	m.bus.Errorf("Could not open %q: %v", msg.Task.Name, msg.Err)
	return m, m.ensureToastTick()
}

// handleConfigReloaded applies a new config: hide patterns, theme and refresh
// cadence take effect at once, followed by a refresh so the list reflects them.
// A config that fails to load leaves the running one untouched.
func (m Model) handleConfigReloaded(msg configReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if errors.Is(msg.Err, context.Canceled) || errors.Is(msg.Err, config.ErrWatcherClosed) {
			return m, nil
		}
		m.log.Warn().Err(msg.Err).Msg("config reload failed")
		m.bus.Warnf("Config not reloaded: %v", msg.Err)
		return m, tea.Batch(m.watchConfig(), m.ensureToastTick())
	}

	cfg := msg.Config
	if p, ok := styles.GetPalette(cfg.TUI.Theme); ok {
		styles.SetTheme(p)
		m.spinner.Style = styles.TextMutedStyle
	}

	m.opts.Hide = cfg.Panel.Hide
	m.opts.RefreshInterval = cfg.Refresh.Interval
	m.opts.CompleteDelay = cfg.Refresh.CompleteDelay
	m.panel.SetHide(cfg.Panel.Hide)

	m.sched.StartPeriodic(m.opts.RefreshInterval)
	m.sched.Schedule(0, false, scheduler.ReasonReload)

	m.log.Info().
		Str("theme", cfg.TUI.Theme).
		Dur("interval", cfg.Refresh.Interval).
		Int("hide", len(cfg.Panel.Hide)).
		Msg("config reloaded")
	m.bus.Infof("Config reloaded")
	return m, tea.Batch(m.watchConfig(), m.ensureToastTick())
}

func (m Model) handleToastTick(msg toastTickMsg) (tea.Model, tea.Cmd) {
	m.toasts.Expire(time.Time(msg))
	if m.toasts.HasToasts() {
		return m, scheduleToastTick()
	}
	m.toasts.SetTicking(false)
	return m, nil
}

// ensureToastTick starts the expiry tick when toasts are showing and no tick
// chain is running yet.
func (m Model) ensureToastTick() tea.Cmd {
	if !m.toasts.HasToasts() || m.toasts.Ticking() {
		return nil
	}
	m.toasts.SetTicking(true)
	return scheduleToastTick()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.Dismiss()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.panel.MoveUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.panel.MoveDown()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.sched.Schedule(0, true, scheduler.ReasonManual)
		return m, nil
	case key.Matches(msg, m.keys.Complete):
		return m.completeSelected()
	case key.Matches(msg, m.keys.Open):
		return m.openSelected()
	}
	return m, nil
}

// completeSelected issues the completion, drops the row right away and asks
// for a delayed refresh to pick up what Things ends up reporting.
func (m Model) completeSelected() (tea.Model, tea.Cmd) {
	sel, ok := m.panel.Selected()
	if !ok {
		return m, nil
	}

	task, index, _ := m.panel.Remove(sel.ID)
	m.sched.Schedule(m.opts.CompleteDelay, false, scheduler.ReasonComplete)
	m.log.Debug().Str("task", task.ID).Int("index", index).Msg("completing task")

	return m, completeTask(m.ctx, m.source, task, index)
}

func (m Model) openSelected() (tea.Model, tea.Cmd) {
	sel, ok := m.panel.Selected()
	if !ok || m.opener == nil {
		return m, nil
	}
	return m, openTask(m.ctx, m.opener, sel)
}

// View renders the panel.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	content := m.render()

	if m.width > 0 && m.height > 0 {
		content = lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			MaxHeight(m.height).
			Render(content)
		if m.toasts.HasToasts() {
			content = m.toastView.Overlay(content, m.width, m.height)
		}
	} else if m.toasts.HasToasts() {
		content += "\n\n" + m.toastView.View(0)
	}

	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

// render builds the scaffold around the task list. The scaffold is produced
// here and nowhere else, so repeated renders of the list never duplicate it.
func (m Model) render() string {
	header := styles.PanelHeaderStyle.Render(panelHeader)
	if m.loading {
		header += " " + m.spinner.View()
	}

	lines := []string{
		header,
		styles.PanelLinkStyle.Render(things.TodayURL),
		styles.PanelButtonStyle.Render(refreshLabel),
		"",
	}

	switch {
	case m.panel.Len() > 0:
		lines = append(lines, m.panel.View(m.width))
	case m.lastErr != nil:
		lines = append(lines, styles.TextErrorStyle.Render("Could not load the Today list."))
	case m.loaded:
		lines = append(lines, styles.TextMutedStyle.Render("Nothing left for today."))
	default:
		lines = append(lines, styles.TextMutedStyle.Render("Loading…"))
	}

	lines = append(lines, "", m.helpLine())
	return strings.Join(lines, "\n")
}

func (m Model) helpLine() string {
	parts := make([]string, 0, 4)
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return styles.PanelHelpStyle.Render(strings.Join(parts, " • "))
}
