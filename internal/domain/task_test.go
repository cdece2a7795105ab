package domain

import (
	"testing"
	"time"
)

func TestNewTask(t *testing.T) {
	settings := DefaultTimerSettings()

	task, err := NewTask("write report", 30, settings)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if task.ID == "" {
		t.Error("NewTask() should assign an ID")
	}
	if task.Status != StatusPending {
		t.Errorf("status = %v, want pending", task.Status)
	}
	if task.Duration != 30 {
		t.Errorf("duration = %d, want 30", task.Duration)
	}
	if task.Timer.Mode != ModePomodoro || task.Timer.IsRunning {
		t.Errorf("timer should start as a stopped pomodoro, got %+v", task.Timer)
	}
	if task.Timer.RemainingSeconds != 25*60 {
		t.Errorf("remaining = %d, want %d", task.Timer.RemainingSeconds, 25*60)
	}
}

func TestNewTask_Validation(t *testing.T) {
	settings := DefaultTimerSettings()

	if _, err := NewTask("", 30, settings); err != ErrEmptyTaskTitle {
		t.Errorf("NewTask(empty title) error = %v, want ErrEmptyTaskTitle", err)
	}

	task, err := NewTask("x", -5, settings)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if task.Duration != 0 {
		t.Errorf("negative duration should clamp to 0, got %d", task.Duration)
	}
}

func TestExpectedPomodoros(t *testing.T) {
	settings := DefaultTimerSettings()

	tests := []struct {
		name     string
		duration int
		want     int
	}{
		{"zero", 0, 0},
		{"under one cycle", 20, 1},
		{"exactly one cycle", 25, 1},
		{"partial second cycle", 26, 2},
		{"several cycles", 80, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpectedPomodoros(tt.duration, settings); got != tt.want {
				t.Errorf("ExpectedPomodoros(%d) = %d, want %d", tt.duration, got, tt.want)
			}
		})
	}
}

func TestIsLate(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	task := &Task{Status: StatusActive, StartTime: start, Duration: 30}

	if task.IsLate(start.Add(29 * time.Minute)) {
		t.Error("a task inside its slot is not late")
	}
	if !task.IsLate(start.Add(31 * time.Minute)) {
		t.Error("an active task past its planned end is late")
	}

	task.Status = StatusPending
	if task.IsLate(start.Add(31 * time.Minute)) {
		t.Error("lateness only applies to the active task")
	}
}

func TestClone_Independence(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	anchor := ClockTime{Hour: 9, Minute: 30}
	task := &Task{
		ID:            "t1",
		Title:         "a",
		AnchoredStart: &anchor,
		Timer:         TimerData{IsRunning: true, LastStartedAt: &now, Mode: ModePomodoro},
	}

	c := task.Clone()
	c.AnchoredStart.Hour = 10
	*c.Timer.LastStartedAt = now.Add(time.Hour)

	if task.AnchoredStart.Hour != 9 {
		t.Error("clone shares the anchor pointer")
	}
	if !task.Timer.LastStartedAt.Equal(now) {
		t.Error("clone shares the timer timestamp pointer")
	}
}
