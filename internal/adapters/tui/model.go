// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ledan/tempo-cli/internal/config"
	"github.com/ledan/tempo-cli/internal/domain"
)

// PlanService is the slice of the planner the dashboard drives.
type PlanService interface {
	Plan(ctx context.Context, day string, now time.Time) (*domain.DayPlan, error)
	Tick(ctx context.Context, day string, now time.Time) (*domain.Task, error)
	Refresh(ctx context.Context, day string, now time.Time) error
	ToggleTimer(ctx context.Context, day, id string, now time.Time) (*domain.Task, error)
	SkipInterval(ctx context.Context, day, id string, now time.Time) (*domain.Task, error)
	Complete(ctx context.Context, day, id string, now time.Time) (*domain.Task, error)
	Select(ctx context.Context, day, id string, now time.Time) (*domain.Task, error)
}

// resolveTheme fills any empty string fields in the given ThemeConfig with
// defaults. If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// tickMsg is the fixed-cadence pulse that drives timer expiry. It is the
// only message allowed to cause an interval transition.
type tickMsg time.Time

// sampleMsg redraws the countdown between ticks. It carries a generation
// tag so samples from a cancelled sampler are dropped instead of
// restarting it.
type sampleMsg struct {
	gen int
	at  time.Time
}

// refreshMsg periodically rebases the schedule so passive overrun shows
// up even when the user never touches a key.
type refreshMsg time.Time

// planMsg wraps a plan snapshot fetched asynchronously.
type planMsg struct {
	plan *domain.DayPlan
}

// errMsg wraps an error from a planner call.
type errMsg struct {
	err error
}

// Model represents the day dashboard state.
type Model struct {
	ctx      context.Context
	svc      PlanService
	day      string
	settings domain.TimerSettings
	theme    config.ThemeConfig

	plan     *domain.DayPlan
	cursor   int
	now      time.Time
	progress progress.Model
	width    int
	height   int

	sampling  bool
	sampleGen int

	lastErr error
}

// NewModel creates a new dashboard model for one day plan.
func NewModel(ctx context.Context, svc PlanService, day string, settings domain.TimerSettings, theme *config.ThemeConfig) Model {
	return Model{
		ctx:      ctx,
		svc:      svc,
		day:      day,
		settings: settings,
		theme:    resolveTheme(theme),
		now:      time.Now(),
		progress: progress.New(progress.WithDefaultGradient()),
		width:    getTerminalWidth(),
	}
}

// Init starts the tick and refresh loops and loads the initial plan.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), refreshCmd(), m.loadPlanCmd())
}

// tickCmd schedules the next authoritative tick.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// sampleCmd schedules the next display sample for a sampler generation.
func sampleCmd(gen int) tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return sampleMsg{gen: gen, at: t}
	})
}

// refreshCmd schedules the next passive schedule rebase.
func refreshCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// loadPlanCmd fetches a fresh plan snapshot asynchronously.
func (m Model) loadPlanCmd() tea.Cmd {
	ctx, svc, day := m.ctx, m.svc, m.day
	return func() tea.Msg {
		plan, err := svc.Plan(ctx, day, time.Now())
		if err != nil {
			return errMsg{err: err}
		}
		return planMsg{plan: plan}
	}
}

// driveTickCmd runs one expiry pass, then fetches the resulting plan.
func (m Model) driveTickCmd() tea.Cmd {
	ctx, svc, day := m.ctx, m.svc, m.day
	return func() tea.Msg {
		if _, err := svc.Tick(ctx, day, time.Now()); err != nil {
			return errMsg{err: err}
		}
		plan, err := svc.Plan(ctx, day, time.Now())
		if err != nil {
			return errMsg{err: err}
		}
		return planMsg{plan: plan}
	}
}

// refreshPlanCmd rebases the schedule, then fetches the resulting plan.
func (m Model) refreshPlanCmd() tea.Cmd {
	ctx, svc, day := m.ctx, m.svc, m.day
	return func() tea.Msg {
		if err := svc.Refresh(ctx, day, time.Now()); err != nil {
			return errMsg{err: err}
		}
		plan, err := svc.Plan(ctx, day, time.Now())
		if err != nil {
			return errMsg{err: err}
		}
		return planMsg{plan: plan}
	}
}

// taskActionCmd runs a per-task planner action, then fetches the plan.
func (m Model) taskActionCmd(id string, action func(ctx context.Context, day, id string, now time.Time) (*domain.Task, error)) tea.Cmd {
	ctx, svc, day := m.ctx, m.svc, m.day
	return func() tea.Msg {
		if _, err := action(ctx, day, id, time.Now()); err != nil {
			return errMsg{err: err}
		}
		plan, err := svc.Plan(ctx, day, time.Now())
		if err != nil {
			return errMsg{err: err}
		}
		return planMsg{plan: plan}
	}
}

// selectedTask returns the task under the cursor, or nil.
func (m Model) selectedTask() *domain.Task {
	if m.plan == nil || m.cursor < 0 || m.cursor >= len(m.plan.Tasks) {
		return nil
	}
	return m.plan.Tasks[m.cursor]
}

// hasRunningTimer reports whether any task's timer is counting down.
func (m Model) hasRunningTimer() bool {
	if m.plan == nil {
		return false
	}
	for _, t := range m.plan.Tasks {
		if t.Timer.IsRunning {
			return true
		}
	}
	return false
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.plan != nil && m.cursor < len(m.plan.Tasks)-1 {
				m.cursor++
			}
		case " ":
			if t := m.selectedTask(); t != nil {
				return m, m.taskActionCmd(t.ID, m.svc.ToggleTimer)
			}
		case "s":
			if t := m.selectedTask(); t != nil && t.Timer.IsRunning {
				return m, m.taskActionCmd(t.ID, m.svc.SkipInterval)
			}
		case "c":
			if t := m.selectedTask(); t != nil {
				return m, m.taskActionCmd(t.ID, m.svc.Complete)
			}
		case "enter":
			if t := m.selectedTask(); t != nil {
				return m, m.taskActionCmd(t.ID, m.svc.Select)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 4

	case tickMsg:
		m.now = time.Time(msg)
		return m, tea.Batch(tickCmd(), m.driveTickCmd())

	case refreshMsg:
		return m, tea.Batch(refreshCmd(), m.refreshPlanCmd())

	case sampleMsg:
		if msg.gen != m.sampleGen {
			// A cancelled sampler; let it die.
			return m, nil
		}
		m.now = msg.at
		return m, sampleCmd(m.sampleGen)

	case planMsg:
		m.plan = msg.plan
		m.lastErr = nil
		if n := len(m.plan.Tasks); m.cursor >= n && n > 0 {
			m.cursor = n - 1
		}

		running := m.hasRunningTimer()
		if running && !m.sampling {
			m.sampleGen++
			m.sampling = true
			return m, sampleCmd(m.sampleGen)
		}
		if !running && m.sampling {
			m.sampleGen++
			m.sampling = false
		}

	case errMsg:
		m.lastErr = msg.err
	}

	var cmd tea.Cmd
	newProgress, cmd := m.progress.Update(msg)
	if p, ok := newProgress.(progress.Model); ok {
		m.progress = p
	}
	return m, cmd
}
