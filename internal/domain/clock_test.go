package domain

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ClockTime
		wantErr bool
	}{
		{"simple", "09:30", ClockTime{9, 30}, false},
		{"midnight", "00:00", ClockTime{0, 0}, false},
		{"late evening", "23:59", ClockTime{23, 59}, false},
		{"no colon", "0930", ClockTime{}, true},
		{"letters", "ab:cd", ClockTime{}, true},
		{"empty", "", ClockTime{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseClock(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClockTime_Resolve(t *testing.T) {
	ref := time.Date(2025, 3, 10, 14, 45, 12, 0, time.Local)
	got := ClockTime{Hour: 9, Minute: 30}.Resolve(ref)
	want := time.Date(2025, 3, 10, 9, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestClockTime_String(t *testing.T) {
	if s := (ClockTime{Hour: 7, Minute: 5}).String(); s != "07:05" {
		t.Errorf("String() = %q, want 07:05", s)
	}
}

func TestDayKeyRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 10, 23, 59, 0, 0, time.Local)
	key := DayKeyFor(now)
	if key != "2025-03-10" {
		t.Fatalf("DayKeyFor() = %q, want 2025-03-10", key)
	}

	ref, err := ParseDayKey(key)
	if err != nil {
		t.Fatalf("ParseDayKey() error = %v", err)
	}
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	if !ref.Equal(want) {
		t.Errorf("ParseDayKey() = %v, want local midnight %v", ref, want)
	}
}

func TestDayPlan_ActiveTask(t *testing.T) {
	a := &Task{ID: "a"}
	b := &Task{ID: "b"}
	plan := &DayPlan{Key: "2025-03-10", Tasks: []*Task{a, b}}

	if plan.ActiveTask() != nil {
		t.Error("plan without an active pointer has no active task")
	}

	plan.ActiveTaskID = "b"
	if got := plan.ActiveTask(); got != b {
		t.Errorf("ActiveTask() = %v, want b", got)
	}

	plan.ActiveTaskID = "gone"
	if plan.ActiveTask() != nil {
		t.Error("a dangling active pointer resolves to nil")
	}
}
