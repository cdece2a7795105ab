package domain

import "time"

// TimerMode represents the current interval type of a task's focus timer.
type TimerMode string

const (
	ModePomodoro   TimerMode = "pomo"
	ModeShortBreak TimerMode = "short_break"
	ModeLongBreak  TimerMode = "long_break"
)

// LongBreakEvery is the pomodoro count after which a long break is due.
const LongBreakEvery = 4

// TimerData is the persistent per-task timer state. RemainingSeconds is
// the authoritative countdown remainder; while the timer runs, elapsed
// time is reconstructed from LastStartedAt rather than counted in ticks,
// so the timer survives missed ticks, sleep and throttling.
// LastStartedAt is non-nil exactly when IsRunning is true.
type TimerData struct {
	RemainingSeconds int
	IsRunning        bool
	LastStartedAt    *time.Time
	Mode             TimerMode
}

// NewTimerData returns a stopped timer primed for a full pomodoro.
func NewTimerData(settings TimerSettings) TimerData {
	return TimerData{
		RemainingSeconds: int(settings.PomodoroDuration.Seconds()),
		Mode:             ModePomodoro,
	}
}

// TimerSettings holds the interval durations and auto-start behavior for
// the focus timer.
type TimerSettings struct {
	PomodoroDuration   time.Duration
	ShortBreakDuration time.Duration
	LongBreakDuration  time.Duration
	AutoStartBreaks    bool
	AutoStartPomodoros bool
}

// DefaultTimerSettings returns the standard pomodoro configuration.
func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		PomodoroDuration:   25 * time.Minute,
		ShortBreakDuration: 5 * time.Minute,
		LongBreakDuration:  15 * time.Minute,
	}
}

// DurationFor returns the configured duration of a timer mode.
func (s TimerSettings) DurationFor(mode TimerMode) time.Duration {
	switch mode {
	case ModeShortBreak:
		return s.ShortBreakDuration
	case ModeLongBreak:
		return s.LongBreakDuration
	default:
		return s.PomodoroDuration
	}
}

// ModeLabel returns a human-readable label for a timer mode.
func ModeLabel(m TimerMode) string {
	switch m {
	case ModePomodoro:
		return "Focus"
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	default:
		return "Unknown"
	}
}
