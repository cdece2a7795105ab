package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ledan/tempo-cli/internal/domain"
	"github.com/ledan/tempo-cli/internal/timer"
)

// printJSON marshals any value with indentation and prints it.
func printJSON(v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonData))
	return nil
}

// taskJSON renders a task for --json output.
func taskJSON(t *domain.Task, now time.Time) map[string]interface{} {
	data := map[string]interface{}{
		"id":               t.ID,
		"title":            t.Title,
		"status":           string(t.Status),
		"start_time":       t.StartTime.Format("15:04"),
		"end_time":         t.PlannedEnd().Format("15:04"),
		"duration_minutes": t.Duration,
		"completed_pomos":  t.CompletedPomodoros,
		"expected_pomos":   t.ExpectedPomodoros,
		"timer": map[string]interface{}{
			"mode":              string(t.Timer.Mode),
			"running":           t.Timer.IsRunning,
			"remaining_seconds": timer.Remaining(t, now),
		},
	}
	if t.AnchoredStart != nil {
		data["anchor"] = t.AnchoredStart.String()
	}
	if t.Notes != "" {
		data["notes"] = t.Notes
	}
	if t.GitBranch != "" {
		data["git_branch"] = t.GitBranch
	}
	if t.IsLate(now) {
		data["late"] = true
	}
	return data
}

// statusIcon maps a task status to its list marker.
func statusIcon(t *domain.Task, now time.Time) string {
	switch {
	case t.IsCompleted():
		return "✅"
	case t.IsLate(now):
		return "⏰"
	case t.Status == domain.StatusActive:
		return "▶️"
	default:
		return "⏳"
	}
}

// printTaskLine prints one schedule row.
func printTaskLine(i int, t *domain.Task, now time.Time) {
	var extras []string
	if t.AnchoredStart != nil {
		extras = append(extras, "⚓"+t.AnchoredStart.String())
	}
	if t.ExpectedPomodoros > 0 {
		extras = append(extras, fmt.Sprintf("🍅 %d/%d", t.CompletedPomodoros, t.ExpectedPomodoros))
	}
	if t.GitBranch != "" {
		extras = append(extras, "⎇ "+t.GitBranch)
	}
	extra := ""
	if len(extras) > 0 {
		extra = "  " + strings.Join(extras, "  ")
	}

	fmt.Printf("%2d. %s %s–%s %3dm  %s%s\n",
		i+1, statusIcon(t, now),
		t.StartTime.Format("15:04"), t.PlannedEnd().Format("15:04"),
		t.Duration, t.Title, extra)
}

// printPlan prints the whole schedule for a day.
func printPlan(plan *domain.DayPlan, now time.Time) {
	if len(plan.Tasks) == 0 {
		fmt.Printf("No tasks planned for %s.\n", plan.Key)
		return
	}

	header := fmt.Sprintf("📅 %s (%d tasks)", plan.Key, len(plan.Tasks))
	if plan.PlanStart != nil {
		header += fmt.Sprintf(", plan starts %s", plan.PlanStart.Format("15:04"))
	}
	fmt.Println(header)
	fmt.Println()
	for i, t := range plan.Tasks {
		printTaskLine(i, t, now)
	}
}

// formatSeconds renders a second count as MM:SS.
func formatSeconds(s int) string {
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
