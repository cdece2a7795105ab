package storage

import (
	"context"
	"testing"
	"time"

	"github.com/ledan/tempo-cli/internal/domain"
)

func TestNewMemory(t *testing.T) {
	store, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	if store == nil {
		t.Error("NewMemory() returned nil storage")
	}
}

func TestPlanRepository_EmptyDay(t *testing.T) {
	store, _ := NewMemory()
	defer func() { _ = store.Close() }()

	plan, err := store.Plans().LoadDay(context.Background(), "2025-03-10")
	if err != nil {
		t.Fatalf("LoadDay() error = %v", err)
	}
	if plan.Key != "2025-03-10" {
		t.Errorf("LoadDay() key = %v, want 2025-03-10", plan.Key)
	}
	if len(plan.Tasks) != 0 || plan.ActiveTaskID != "" || plan.PlanStart != nil {
		t.Error("LoadDay() of an unwritten day should be empty")
	}
}

func TestPlanRepository_RoundTrip(t *testing.T) {
	store, _ := NewMemory()
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	settings := domain.DefaultTimerSettings()
	a, _ := domain.NewTask("write report", 30, settings)
	b, _ := domain.NewTask("standup", 15, settings)
	anchor, _ := domain.ParseClock("09:30")
	b.AnchoredStart = &anchor
	b.Color = "#E06C75"
	b.Notes = "daily sync"
	b.GitBranch = "feature/planner"

	started := time.Date(2025, 3, 10, 8, 5, 0, 0, time.Local)
	a.Timer.IsRunning = true
	a.Timer.LastStartedAt = &started
	a.Timer.RemainingSeconds = 900
	a.Timer.Mode = domain.ModeShortBreak
	a.Status = domain.StatusActive
	a.StartTime = time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)

	planStart := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)
	plan := &domain.DayPlan{
		Key:          "2025-03-10",
		Tasks:        []*domain.Task{a, b},
		ActiveTaskID: a.ID,
		PlanStart:    &planStart,
	}

	if err := store.Plans().SaveDay(ctx, plan); err != nil {
		t.Fatalf("SaveDay() error = %v", err)
	}

	loaded, err := store.Plans().LoadDay(ctx, "2025-03-10")
	if err != nil {
		t.Fatalf("LoadDay() error = %v", err)
	}

	if len(loaded.Tasks) != 2 {
		t.Fatalf("LoadDay() returned %d tasks, want 2", len(loaded.Tasks))
	}
	if loaded.ActiveTaskID != a.ID {
		t.Errorf("active id = %v, want %v", loaded.ActiveTaskID, a.ID)
	}
	if loaded.PlanStart == nil || !loaded.PlanStart.Equal(planStart) {
		t.Errorf("plan start = %v, want %v", loaded.PlanStart, planStart)
	}

	la, lb := loaded.Tasks[0], loaded.Tasks[1]
	if la.ID != a.ID || lb.ID != b.ID {
		t.Error("task order not preserved")
	}
	if !la.StartTime.Equal(a.StartTime) {
		t.Errorf("start time = %v, want %v", la.StartTime, a.StartTime)
	}
	if la.Timer.Mode != domain.ModeShortBreak || la.Timer.RemainingSeconds != 900 {
		t.Errorf("timer state lost: %+v", la.Timer)
	}
	if !la.Timer.IsRunning || la.Timer.LastStartedAt == nil || !la.Timer.LastStartedAt.Equal(started) {
		t.Errorf("running timer not restored: %+v", la.Timer)
	}
	if lb.AnchoredStart == nil || lb.AnchoredStart.String() != "09:30" {
		t.Errorf("anchor = %v, want 09:30", lb.AnchoredStart)
	}
	if lb.Color != "#E06C75" || lb.Notes != "daily sync" || lb.GitBranch != "feature/planner" {
		t.Error("optional fields lost in round trip")
	}
}

func TestPlanRepository_SaveReplacesSequence(t *testing.T) {
	store, _ := NewMemory()
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	settings := domain.DefaultTimerSettings()
	a, _ := domain.NewTask("a", 30, settings)
	b, _ := domain.NewTask("b", 20, settings)

	plan := &domain.DayPlan{Key: "2025-03-10", Tasks: []*domain.Task{a, b}}
	if err := store.Plans().SaveDay(ctx, plan); err != nil {
		t.Fatalf("SaveDay() error = %v", err)
	}

	// Drop b, reorder nothing else.
	plan.Tasks = []*domain.Task{a}
	plan.ActiveTaskID = a.ID
	if err := store.Plans().SaveDay(ctx, plan); err != nil {
		t.Fatalf("SaveDay() error = %v", err)
	}

	loaded, err := store.Plans().LoadDay(ctx, "2025-03-10")
	if err != nil {
		t.Fatalf("LoadDay() error = %v", err)
	}
	if len(loaded.Tasks) != 1 || loaded.Tasks[0].ID != a.ID {
		t.Errorf("SaveDay() should fully replace the stored sequence, got %d tasks", len(loaded.Tasks))
	}
}

func TestPlanRepository_ListAndDeleteDays(t *testing.T) {
	store, _ := NewMemory()
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	for _, key := range []string{"2025-03-09", "2025-03-10", "2025-03-11"} {
		if err := store.Plans().SaveDay(ctx, &domain.DayPlan{Key: key}); err != nil {
			t.Fatalf("SaveDay(%s) error = %v", key, err)
		}
	}

	days, err := store.Plans().ListDays(ctx)
	if err != nil {
		t.Fatalf("ListDays() error = %v", err)
	}
	if len(days) != 3 || days[0] != "2025-03-11" {
		t.Errorf("ListDays() = %v, want newest first", days)
	}

	if err := store.Plans().DeleteDay(ctx, "2025-03-10"); err != nil {
		t.Fatalf("DeleteDay() error = %v", err)
	}
	days, _ = store.Plans().ListDays(ctx)
	if len(days) != 2 {
		t.Errorf("ListDays() after delete = %v, want 2 days", days)
	}
}

func TestScanTask_RepairsRunningInvariant(t *testing.T) {
	store, _ := NewMemory()
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	settings := domain.DefaultTimerSettings()
	a, _ := domain.NewTask("a", 30, settings)
	// Simulate a crash between setting the flag and the timestamp.
	a.Timer.IsRunning = true
	a.Timer.LastStartedAt = nil

	plan := &domain.DayPlan{Key: "2025-03-10", Tasks: []*domain.Task{a}}
	if err := store.Plans().SaveDay(ctx, plan); err != nil {
		t.Fatalf("SaveDay() error = %v", err)
	}

	loaded, err := store.Plans().LoadDay(ctx, "2025-03-10")
	if err != nil {
		t.Fatalf("LoadDay() error = %v", err)
	}
	if loaded.Tasks[0].Timer.IsRunning {
		t.Error("a running flag without a timestamp must be cleared on load")
	}
}
