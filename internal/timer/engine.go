// Package timer implements the pomodoro-cycle state machine that runs
// per-task focus intervals. Remaining time is reconstructed from the
// last-started timestamp rather than decremented per tick, so the engine
// recovers correctly after any gap in scheduling.
package timer

import (
	"time"

	"github.com/ledan/tempo-cli/internal/domain"
	"github.com/ledan/tempo-cli/internal/ports"
)

// Engine owns the per-task timer transitions. It holds no task state of
// its own; all state lives in each task's TimerData.
type Engine struct {
	settings domain.TimerSettings
	notifier ports.Notifier
}

// NewEngine creates a timer engine. The notifier may be nil.
func NewEngine(settings domain.TimerSettings, notifier ports.Notifier) *Engine {
	return &Engine{settings: settings, notifier: notifier}
}

// SetSettings swaps the interval configuration.
func (e *Engine) SetSettings(settings domain.TimerSettings) {
	e.settings = settings
}

// Settings returns the current interval configuration.
func (e *Engine) Settings() domain.TimerSettings {
	return e.settings
}

// Toggle starts, resumes or pauses the timer of the target task. Any
// other running timer in the sequence is paused first, so at most one
// timer runs across the whole plan.
func (e *Engine) Toggle(tasks []*domain.Task, id string, now time.Time) error {
	target := findTask(tasks, id)
	if target == nil {
		return domain.ErrTaskNotFound
	}

	if target.Timer.IsRunning {
		pause(target, now)
		return nil
	}

	for _, t := range tasks {
		if t.ID != id && t.Timer.IsRunning {
			pause(t, now)
		}
	}

	target.Timer.IsRunning = true
	target.Timer.LastStartedAt = &now
	return nil
}

// Tick scans the running task for expiry and finishes its interval when
// the reconstructed remainder reaches zero. It is the only caller allowed
// to trigger completion; display sampling never transitions state. The
// finished task is returned, or nil when nothing expired.
func (e *Engine) Tick(tasks []*domain.Task, now time.Time) *domain.Task {
	for _, t := range tasks {
		if !t.Timer.IsRunning || t.Timer.LastStartedAt == nil {
			continue
		}
		if t.Timer.RemainingSeconds-elapsedSeconds(t, now) <= 0 {
			e.Finish(t, now)
			return t
		}
	}
	return nil
}

// Finish ends the current interval and rolls the timer into the next
// mode of the cycle: every LongBreakEvery-th completed pomodoro earns a
// long break, otherwise a short one, and breaks roll back into a
// pomodoro. Auto-start flags decide whether the next interval begins
// immediately.
func (e *Engine) Finish(t *domain.Task, now time.Time) {
	finished := t.Timer.Mode

	var next domain.TimerMode
	if finished == domain.ModePomodoro {
		t.CompletedPomodoros++
		next = domain.ModeShortBreak
		if t.CompletedPomodoros%domain.LongBreakEvery == 0 {
			next = domain.ModeLongBreak
		}
	} else {
		next = domain.ModePomodoro
	}

	auto := e.settings.AutoStartPomodoros
	if finished == domain.ModePomodoro {
		auto = e.settings.AutoStartBreaks
	}

	t.Timer.Mode = next
	t.Timer.RemainingSeconds = int(e.settings.DurationFor(next).Seconds())
	t.Timer.IsRunning = auto
	if auto {
		started := now
		t.Timer.LastStartedAt = &started
	} else {
		t.Timer.LastStartedAt = nil
	}

	if e.notifier != nil {
		_ = e.notifier.IntervalFinished(t.Title, finished, next)
	}
}

// Skip fast-forwards the current interval, behaving exactly like an
// immediate Finish regardless of remaining time.
func (e *Engine) Skip(tasks []*domain.Task, id string, now time.Time) error {
	target := findTask(tasks, id)
	if target == nil {
		return domain.ErrTaskNotFound
	}
	e.Finish(target, now)
	return nil
}

// Pause stops the task's timer if it is running, folding the elapsed
// stretch into the stored remainder.
func (e *Engine) Pause(t *domain.Task, now time.Time) {
	pause(t, now)
}

// Remaining computes the visual countdown value for display sampling.
// It is non-authoritative: callers must never act on it reaching zero,
// only Tick may cause a transition.
func Remaining(t *domain.Task, now time.Time) int {
	rem := t.Timer.RemainingSeconds
	if t.Timer.IsRunning && t.Timer.LastStartedAt != nil {
		rem -= elapsedSeconds(t, now)
	}
	if rem < 0 {
		return 0
	}
	return rem
}

func pause(t *domain.Task, now time.Time) {
	if !t.Timer.IsRunning {
		return
	}
	rem := t.Timer.RemainingSeconds - elapsedSeconds(t, now)
	if rem < 0 {
		rem = 0
	}
	t.Timer.RemainingSeconds = rem
	t.Timer.IsRunning = false
	t.Timer.LastStartedAt = nil
}

func elapsedSeconds(t *domain.Task, now time.Time) int {
	if t.Timer.LastStartedAt == nil {
		return 0
	}
	return int(now.Sub(*t.Timer.LastStartedAt).Seconds())
}

func findTask(tasks []*domain.Task, id string) *domain.Task {
	for _, t := range tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}
