package domain

import "time"

// DayKeyLayout is the canonical YYYY-MM-DD key for a day plan.
const DayKeyLayout = "2006-01-02"

// DayPlan is one day's ordered task sequence plus its active-task pointer
// and movable plan-start anchor. Sequence order defines execution order.
type DayPlan struct {
	Key          string
	Tasks        []*Task
	ActiveTaskID string
	PlanStart    *time.Time
}

// DayKeyFor returns the plan key for a point in time.
func DayKeyFor(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ParseDayKey resolves a plan key to local midnight of that day, the
// reference date used for anchor resolution.
func ParseDayKey(key string) (time.Time, error) {
	return time.ParseInLocation(DayKeyLayout, key, time.Local)
}

// ActiveTask returns the task the active pointer refers to, or nil.
func (p *DayPlan) ActiveTask() *Task {
	if p.ActiveTaskID == "" {
		return nil
	}
	for _, t := range p.Tasks {
		if t.ID == p.ActiveTaskID {
			return t
		}
	}
	return nil
}

// Clone deep-copies the plan so readers can hold a snapshot while the
// coordinator keeps rewriting the live sequence.
func (p *DayPlan) Clone() *DayPlan {
	c := &DayPlan{
		Key:          p.Key,
		Tasks:        CloneTasks(p.Tasks),
		ActiveTaskID: p.ActiveTaskID,
	}
	if p.PlanStart != nil {
		ts := *p.PlanStart
		c.PlanStart = &ts
	}
	return c
}
