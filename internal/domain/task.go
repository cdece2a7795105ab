// Package domain contains the core business entities for Tempo.
// These entities represent the fundamental concepts of the day-planning
// system and are independent of any external frameworks or infrastructure.
package domain

import (
	"errors"
	"time"
)

// Common domain errors.
var (
	ErrInvalidTaskID   = errors.New("invalid task ID")
	ErrEmptyTaskTitle  = errors.New("task title cannot be empty")
	ErrTaskNotFound    = errors.New("task not found")
	ErrAmbiguousTask   = errors.New("query matches more than one task")
	ErrInvalidClock    = errors.New("invalid clock time, expected HH:MM")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusActive    TaskStatus = "active"
	StatusCompleted TaskStatus = "completed"
)

// Task represents one time-boxed entry in a day plan. StartTime is always
// derived by schedule recalculation and never authoritative on its own.
// Duration is whole minutes and may be compressed to zero (never below)
// by an anchor on a following task.
type Task struct {
	ID                 string
	Title              string
	StartTime          time.Time
	Duration           int
	Status             TaskStatus
	Color              string
	Notes              string
	AnchoredStart      *ClockTime
	CompletedPomodoros int
	ExpectedPomodoros  int
	GitBranch          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Timer              TimerData
}

// NewTask creates a pending task with an estimated duration in minutes.
func NewTask(title string, duration int, settings TimerSettings) (*Task, error) {
	if title == "" {
		return nil, ErrEmptyTaskTitle
	}
	if duration < 0 {
		duration = 0
	}

	now := time.Now()
	return &Task{
		ID:                generateID(),
		Title:             title,
		Duration:          duration,
		Status:            StatusPending,
		ExpectedPomodoros: ExpectedPomodoros(duration, settings),
		CreatedAt:         now,
		UpdatedAt:         now,
		Timer:             NewTimerData(settings),
	}, nil
}

// PlannedEnd returns the derived end of the task slot.
func (t *Task) PlannedEnd() time.Time {
	return t.StartTime.Add(time.Duration(t.Duration) * time.Minute)
}

// IsLate reports whether the active task has run past its planned slot.
// Lateness is always derived from the clock, never stored.
func (t *Task) IsLate(now time.Time) bool {
	return t.Status == StatusActive && now.After(t.PlannedEnd())
}

// IsCompleted returns true once the task has been checked off.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// Clone returns a copy of the task with its own anchor and timer pointers,
// so a schedule pass can rewrite a sequence without aliasing its input.
func (t *Task) Clone() *Task {
	c := *t
	if t.AnchoredStart != nil {
		a := *t.AnchoredStart
		c.AnchoredStart = &a
	}
	if t.Timer.LastStartedAt != nil {
		ts := *t.Timer.LastStartedAt
		c.Timer.LastStartedAt = &ts
	}
	return &c
}

// CloneTasks clones a whole sequence.
func CloneTasks(tasks []*Task) []*Task {
	out := make([]*Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// ExpectedPomodoros estimates how many pomodoro intervals a duration spans.
func ExpectedPomodoros(durationMinutes int, settings TimerSettings) int {
	cycle := int(settings.PomodoroDuration.Minutes())
	if cycle <= 0 || durationMinutes <= 0 {
		return 0
	}
	return (durationMinutes + cycle - 1) / cycle
}
