// Package planner implements the application layer that keeps each day's
// task sequence, its derived schedule and the focus timers consistent.
// Every structural mutation ends in a recalculation pass, so readers
// always observe a self-consistent start-time assignment.
package planner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/ledan/tempo-cli/internal/domain"
	"github.com/ledan/tempo-cli/internal/ports"
	"github.com/ledan/tempo-cli/internal/schedule"
	"github.com/ledan/tempo-cli/internal/timer"
)

// Planner coordinates the task store, the schedule recalculator and the
// timer engine. A single mutex serializes every plan and timer mutation;
// recalculation reads and rewrites the whole sequence, so there is
// exactly one owner of the task state.
type Planner struct {
	mu      sync.Mutex
	storage ports.Storage
	engine  *timer.Engine
	days    map[string]*domain.DayPlan
}

// New creates a planner backed by the given storage and timer engine.
func New(storage ports.Storage, engine *timer.Engine) *Planner {
	return &Planner{
		storage: storage,
		engine:  engine,
		days:    make(map[string]*domain.DayPlan),
	}
}

// Settings exposes the engine's timer settings.
func (p *Planner) Settings() domain.TimerSettings {
	return p.engine.Settings()
}

// AddOptions carries the optional fields of a new task.
type AddOptions struct {
	// Index inserts the task at a position in the sequence; -1 appends.
	Index  int
	Anchor *domain.ClockTime
	Color  string
	Notes  string
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title     *string
	Duration  *int
	Color     *string
	Notes     *string
	GitBranch *string

	// SetAnchor distinguishes "change the anchor" (possibly to nil,
	// clearing it) from "leave it alone".
	SetAnchor bool
	Anchor    *domain.ClockTime
}

// Plan returns a snapshot of the day's plan after a fresh recalculation,
// so passive time passage (an unattended overrunning task) is reflected
// even without a mutation.
func (p *Planner) Plan(ctx context.Context, day string, now time.Time) (*domain.DayPlan, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	plan, err := p.load(ctx, day)
	if err != nil {
		return nil, err
	}
	p.recalc(plan, now)
	return plan.Clone(), nil
}

// Add inserts a new task and reschedules the day.
func (p *Planner) Add(ctx context.Context, day, title string, duration int, opts AddOptions, now time.Time) (*domain.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	plan, err := p.load(ctx, day)
	if err != nil {
		return nil, err
	}

	task, err := domain.NewTask(title, duration, p.engine.Settings())
	if err != nil {
		return nil, err
	}
	task.AnchoredStart = opts.Anchor
	task.Color = opts.Color
	task.Notes = opts.Notes

	idx := opts.Index
	if idx < 0 || idx > len(plan.Tasks) {
		idx = len(plan.Tasks)
	}
	plan.Tasks = append(plan.Tasks[:idx], append([]*domain.Task{task}, plan.Tasks[idx:]...)...)

	if err := p.commit(ctx, plan, now, schedule.Options{}); err != nil {
		return nil, err
	}
	return p.taskByID(plan, task.ID).Clone(), nil
}

// Remove deletes a task and reschedules the remainder.
func (p *Planner) Remove(ctx context.Context, day, id string, now time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	plan, err := p.load(ctx, day)
	if err != nil {
		return err
	}

	idx := indexOf(plan.Tasks, id)
	if idx < 0 {
		return domain.ErrTaskNotFound
	}
	plan.Tasks = append(plan.Tasks[:idx], plan.Tasks[idx+1:]...)
	if plan.ActiveTaskID == id {
		plan.ActiveTaskID = ""
	}

	return p.commit(ctx, plan, now, schedule.Options{})
}

// Reorder moves a task from one position to another, keeping the rest of
// the sequence stable.
func (p *Planner) Reorder(ctx context.Context, day string, from, to int, now time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	plan, err := p.load(ctx, day)
	if err != nil {
		return err
	}

	n := len(plan.Tasks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return domain.ErrIndexOutOfRange
	}
	if from != to {
		moved := plan.Tasks[from]
		rest := append(plan.Tasks[:from:from], plan.Tasks[from+1:]...)
		plan.Tasks = append(rest[:to:to], append([]*domain.Task{moved}, rest[to:]...)...)
	}

	return p.commit(ctx, plan, now, schedule.Options{})
}

// Update applies a partial edit to a task. Changing the duration also
// re-estimates the expected pomodoro count.
func (p *Planner) Update(ctx context.Context, day, id string, patch TaskPatch, now time.Time) (*domain.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	plan, err := p.load(ctx, day)
	if err != nil {
		return nil, err
	}
	task := p.taskByID(plan, id)
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, domain.ErrEmptyTaskTitle
		}
		task.Title = *patch.Title
	}
	if patch.Duration != nil {
		d := *patch.Duration
		if d < 0 {
			d = 0
		}
		task.Duration = d
		task.ExpectedPomodoros = domain.ExpectedPomodoros(d, p.engine.Settings())
	}
	if patch.Color != nil {
		task.Color = *patch.Color
	}
	if patch.Notes != nil {
		task.Notes = *patch.Notes
	}
	if patch.GitBranch != nil {
		task.GitBranch = *patch.GitBranch
	}
	if patch.SetAnchor {
		task.AnchoredStart = patch.Anchor
	}
	task.UpdatedAt = now

	if err := p.commit(ctx, plan, now, schedule.Options{}); err != nil {
		return nil, err
	}
	return p.taskByID(plan, id).Clone(), nil
}

// Complete toggles a task's completion. Completing snaps the duration to
// real elapsed time (a task that never started completes at zero cost),
// pauses its timer, clears the active pointer if needed and rebases the
// remaining tasks off the actual completion time. Un-completing reverts
// the status only.
func (p *Planner) Complete(ctx context.Context, day, id string, now time.Time) (*domain.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	plan, err := p.load(ctx, day)
	if err != nil {
		return nil, err
	}
	task := p.taskByID(plan, id)
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}

	if task.IsCompleted() {
		task.Status = domain.StatusPending
		task.UpdatedAt = now
		if err := p.commit(ctx, plan, now, schedule.Options{}); err != nil {
			return nil, err
		}
		return p.taskByID(plan, id).Clone(), nil
	}

	if task.StartTime.After(now) {
		// Checked off before its slot even began: skipped at zero cost.
		task.Duration = 0
	} else {
		mins := int((now.Sub(task.StartTime) + time.Minute - 1) / time.Minute)
		if mins < 1 {
			mins = 1
		}
		task.Duration = mins
	}

	p.engine.Pause(task, now)
	task.Status = domain.StatusCompleted
	task.UpdatedAt = now
	if plan.ActiveTaskID == id {
		plan.ActiveTaskID = ""
	}

	opts := schedule.Options{CompletedTaskID: id, ActualEndTime: now}
	if err := p.commit(ctx, plan, now, opts); err != nil {
		return nil, err
	}
	return p.taskByID(plan, id).Clone(), nil
}

// Select makes a task the day's active task. The previously active task
// falls back to pending.
func (p *Planner) Select(ctx context.Context, day, id string, now time.Time) (*domain.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	plan, err := p.load(ctx, day)
	if err != nil {
		return nil, err
	}
	task := p.taskByID(plan, id)
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}

	if prev := plan.ActiveTask(); prev != nil && prev.ID != id {
		prev.Status = domain.StatusPending
	}
	task.Status = domain.StatusActive
	task.UpdatedAt = now
	plan.ActiveTaskID = id

	if err := p.commit(ctx, plan, now, schedule.Options{}); err != nil {
		return nil, err
	}
	return p.taskByID(plan, id).Clone(), nil
}

// ToggleTimer starts, resumes or pauses a task's focus timer.
func (p *Planner) ToggleTimer(ctx context.Context, day, id string, now time.Time) (*domain.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	plan, err := p.load(ctx, day)
	if err != nil {
		return nil, err
	}
	if err := p.engine.Toggle(plan.Tasks, id, now); err != nil {
		return nil, err
	}
	if err := p.commit(ctx, plan, now, schedule.Options{}); err != nil {
		return nil, err
	}
	return p.taskByID(plan, id).Clone(), nil
}

// SkipInterval fast-forwards a task's current interval.
func (p *Planner) SkipInterval(ctx context.Context, day, id string, now time.Time) (*domain.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	plan, err := p.load(ctx, day)
	if err != nil {
		return nil, err
	}
	if err := p.engine.Skip(plan.Tasks, id, now); err != nil {
		return nil, err
	}
	if err := p.commit(ctx, plan, now, schedule.Options{}); err != nil {
		return nil, err
	}
	return p.taskByID(plan, id).Clone(), nil
}

// Tick drives timer expiry for the day's running task, if any. It is the
// fixed-cadence authority on interval completion; the returned task is
// the one whose interval just finished.
func (p *Planner) Tick(ctx context.Context, day string, now time.Time) (*domain.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	plan, err := p.load(ctx, day)
	if err != nil {
		return nil, err
	}
	finished := p.engine.Tick(plan.Tasks, now)
	if finished == nil {
		return nil, nil
	}
	if err := p.commit(ctx, plan, now, schedule.Options{}); err != nil {
		return nil, err
	}
	return p.taskByID(plan, finished.ID).Clone(), nil
}

// Refresh re-runs recalculation and persists, reflecting passive time
// passage without any user interaction.
func (p *Planner) Refresh(ctx context.Context, day string, now time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	plan, err := p.load(ctx, day)
	if err != nil {
		return err
	}
	return p.commit(ctx, plan, now, schedule.Options{})
}

// SetPlanStart moves (or clears) the day's plan-start anchor.
func (p *Planner) SetPlanStart(ctx context.Context, day string, start *time.Time, now time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	plan, err := p.load(ctx, day)
	if err != nil {
		return err
	}
	plan.PlanStart = start
	return p.commit(ctx, plan, now, schedule.Options{})
}

// FindTask resolves a user-supplied query to a single task: exact id,
// then unique id prefix, then fuzzy title match.
func (p *Planner) FindTask(ctx context.Context, day, query string, now time.Time) (*domain.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	plan, err := p.load(ctx, day)
	if err != nil {
		return nil, err
	}

	if t := p.taskByID(plan, query); t != nil {
		return t.Clone(), nil
	}

	var prefix []*domain.Task
	for _, t := range plan.Tasks {
		if len(query) >= 4 && len(t.ID) >= len(query) && t.ID[:len(query)] == query {
			prefix = append(prefix, t)
		}
	}
	if len(prefix) == 1 {
		return prefix[0].Clone(), nil
	}
	if len(prefix) > 1 {
		return nil, domain.ErrAmbiguousTask
	}

	titles := make([]string, len(plan.Tasks))
	for i, t := range plan.Tasks {
		titles[i] = t.Title
	}
	matches := fuzzy.Find(query, titles)
	if len(matches) == 0 {
		return nil, domain.ErrTaskNotFound
	}
	return plan.Tasks[matches[0].Index].Clone(), nil
}

// load fetches a day's plan from cache or storage.
func (p *Planner) load(ctx context.Context, day string) (*domain.DayPlan, error) {
	if plan, ok := p.days[day]; ok {
		return plan, nil
	}
	plan, err := p.storage.Plans().LoadDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan %s: %w", day, err)
	}
	p.days[day] = plan
	return plan, nil
}

// recalc reschedules the plan in place against the day's reference date.
func (p *Planner) recalc(plan *domain.DayPlan, now time.Time) {
	p.recalcWith(plan, now, schedule.Options{})
}

func (p *Planner) recalcWith(plan *domain.DayPlan, now time.Time, opts schedule.Options) {
	opts.ActiveTaskID = plan.ActiveTaskID
	opts.PlanStart = plan.PlanStart
	if ref, err := domain.ParseDayKey(plan.Key); err == nil {
		opts.ReferenceDate = ref
	}
	plan.Tasks = schedule.Recalculate(plan.Tasks, now, opts)
}

// commit reschedules and persists; the schedule is never left stale.
func (p *Planner) commit(ctx context.Context, plan *domain.DayPlan, now time.Time, opts schedule.Options) error {
	p.recalcWith(plan, now, opts)
	if err := p.storage.Plans().SaveDay(ctx, plan); err != nil {
		return fmt.Errorf("failed to save plan %s: %w", plan.Key, err)
	}
	return nil
}

func (p *Planner) taskByID(plan *domain.DayPlan, id string) *domain.Task {
	if i := indexOf(plan.Tasks, id); i >= 0 {
		return plan.Tasks[i]
	}
	return nil
}

func indexOf(tasks []*domain.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
