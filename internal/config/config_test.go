package config

import (
	"testing"
	"time"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    time.Duration
		wantErr bool
	}{
		{name: "minutes", text: "25m", want: 25 * time.Minute},
		{name: "composite", text: "1h30m", want: 90 * time.Minute},
		{name: "invalid", text: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.text))
			if tt.wantErr {
				if err == nil {
					t.Error("UnmarshalText() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalText() error = %v", err)
			}
			if time.Duration(d) != tt.want {
				t.Errorf("UnmarshalText() = %v, want %v", time.Duration(d), tt.want)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if time.Duration(cfg.Timer.PomodoroDuration) != 25*time.Minute {
		t.Errorf("pomodoro duration = %v, want 25m", cfg.Timer.PomodoroDuration)
	}
	if cfg.Timer.AutoStartBreaks || cfg.Timer.AutoStartPomodoros {
		t.Error("auto-start should be off by default")
	}
	if !cfg.Notifications.Enabled {
		t.Error("notifications should be enabled by default")
	}
	if cfg.Plan.DayStart != "" {
		t.Error("no default plan-start anchor expected")
	}
}

func TestConfig_ToTimerSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timer.AutoStartBreaks = true

	settings := cfg.ToTimerSettings()

	if settings.PomodoroDuration != 25*time.Minute {
		t.Errorf("pomodoro = %v, want 25m", settings.PomodoroDuration)
	}
	if settings.ShortBreakDuration != 5*time.Minute {
		t.Errorf("short break = %v, want 5m", settings.ShortBreakDuration)
	}
	if !settings.AutoStartBreaks {
		t.Error("auto_start_breaks not carried over")
	}
}

func TestConfig_DayStartClock(t *testing.T) {
	cfg := DefaultConfig()

	ct, err := cfg.DayStartClock()
	if err != nil {
		t.Fatalf("DayStartClock() error = %v", err)
	}
	if ct != nil {
		t.Error("empty day_start should yield nil clock")
	}

	cfg.Plan.DayStart = "08:30"
	ct, err = cfg.DayStartClock()
	if err != nil {
		t.Fatalf("DayStartClock() error = %v", err)
	}
	if ct == nil || ct.Hour != 8 || ct.Minute != 30 {
		t.Errorf("DayStartClock() = %v, want 08:30", ct)
	}

	cfg.Plan.DayStart = "nope"
	if _, err := cfg.DayStartClock(); err == nil {
		t.Error("invalid day_start should error")
	}
}
