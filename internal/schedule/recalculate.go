// Package schedule implements the plan recalculation pass that assigns a
// derived wall-clock start time to every task in a day sequence.
package schedule

import (
	"time"

	"github.com/ledan/tempo-cli/internal/domain"
)

// Options carries the anchor context for a recalculation pass.
type Options struct {
	// ActiveTaskID identifies the running task, if any. An active task
	// whose planned slot has elapsed holds the cursor at "now" so every
	// later task is pushed back.
	ActiveTaskID string

	// PlanStart anchors the first task. When nil the plan starts at now.
	PlanStart *time.Time

	// ReferenceDate resolves "HH:MM" anchors into absolute instants.
	// Zero means now's date.
	ReferenceDate time.Time

	// CompletedTaskID and ActualEndTime rebase the tasks after a freshly
	// completed task off its real completion time instead of the planned
	// slot end. Set only by the completion path.
	CompletedTaskID string
	ActualEndTime   time.Time
}

// Recalculate performs a single left-to-right pass over the sequence with
// a running cursor, assigning StartTime to every task. Anchored tasks
// reclaim time from their immediately preceding task, compressing its
// duration down to (at most) zero; an anchor that cannot be fully
// satisfied is a soft constraint and the start simply lands late. The
// input is never mutated and the pass is deterministic for identical
// inputs, so re-running with the same clock reading is a no-op.
func Recalculate(tasks []*domain.Task, now time.Time, opts Options) []*domain.Task {
	out := domain.CloneTasks(tasks)

	cursor := now
	if opts.PlanStart != nil {
		cursor = *opts.PlanStart
	}
	ref := opts.ReferenceDate
	if ref.IsZero() {
		ref = now
	}

	for i, t := range out {
		if t.AnchoredStart != nil {
			anchor := t.AnchoredStart.Resolve(ref)
			switch {
			case cursor.After(anchor) && i > 0:
				// Running late into the anchor: shrink the previous task.
				prev := out[i-1]
				overrun := ceilMinutes(cursor.Sub(anchor))
				if prev.Duration > overrun {
					prev.Duration -= overrun
					cursor = anchor
				} else {
					// Zero-floor the predecessor; the cursor retreats to
					// its start, which may still be past the anchor.
					cursor = cursor.Add(-time.Duration(prev.Duration) * time.Minute)
					prev.Duration = 0
				}
			case !cursor.After(anchor):
				// Gap before the anchor: jump forward. The idle stretch
				// is implicit, no filler task is created.
				cursor = anchor
			}
			// A first task with the cursor already past its anchor has no
			// predecessor to compress; the anchor is not enforced.
		}

		t.StartTime = cursor

		end := t.PlannedEnd()
		if t.ID == opts.CompletedTaskID && !opts.ActualEndTime.IsZero() {
			end = opts.ActualEndTime
		} else if t.ID == opts.ActiveTaskID && now.After(end) {
			end = now
		}
		cursor = end
	}

	return out
}

// ceilMinutes rounds a positive duration up to whole minutes.
func ceilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Minute - 1) / time.Minute)
}
