package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ledan/tempo-cli/internal/domain"
	"github.com/ledan/tempo-cli/internal/timer"
)

// View renders the day dashboard.
func (m Model) View() string {
	if m.width == 0 || m.plan == nil {
		return "Loading..."
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	var sections []string
	sections = append(sections, titleStyle.Render(fmt.Sprintf("⏱  Tempo — %s", m.day)))

	if m.plan.PlanStart != nil {
		sections = append(sections, helpStyle.Render(fmt.Sprintf("plan starts %s", m.plan.PlanStart.Format("15:04"))))
	}

	if len(m.plan.Tasks) == 0 {
		idleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorPaused))
		sections = append(sections, "")
		sections = append(sections, idleStyle.Render("Nothing planned. Add tasks with `tempo add`."))
	} else {
		sections = append(sections, "")
		for i, t := range m.plan.Tasks {
			sections = append(sections, m.renderTaskRow(i, t))
		}
	}

	if active := m.plan.ActiveTask(); active != nil {
		sections = append(sections, m.renderTimerPanel(active)...)
	}

	if m.lastErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorLate))
		sections = append(sections, "")
		sections = append(sections, errStyle.Render("error: "+m.lastErr.Error()))
	}

	sections = append(sections, "")
	sections = append(sections, helpStyle.Render("space timer · s skip interval · c complete · enter focus · j/k move · q quit"))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

// renderTaskRow renders one line of the schedule.
func (m Model) renderTaskRow(i int, t *domain.Task) string {
	cursor := "  "
	if i == m.cursor {
		cursor = "▸ "
	}

	icon := "○"
	color := m.theme.DefaultTask
	switch {
	case t.IsCompleted():
		icon = "✓"
		color = m.theme.ColorDone
	case t.Status == domain.StatusActive && t.IsLate(m.now):
		icon = "●"
		color = m.theme.ColorLate
	case t.Status == domain.StatusActive:
		icon = "●"
		color = m.theme.ColorFocus
	}
	if t.Color != "" && t.Status == domain.StatusPending {
		color = t.Color
	}

	slot := fmt.Sprintf("%s–%s", t.StartTime.Format("15:04"), t.PlannedEnd().Format("15:04"))

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

	row := fmt.Sprintf("%s%s %s  %-30s %3dm%s", cursor, icon, slot, truncate(t.Title, 30), t.Duration, extra)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(row)
}

// renderTimerPanel renders the focus-timer block for the active task.
func (m Model) renderTimerPanel(active *domain.Task) []string {
	color := m.theme.ColorFocus
	if active.Timer.Mode != domain.ModePomodoro {
		color = m.theme.ColorBreak
	}
	if !active.Timer.IsRunning {
		color = m.theme.ColorPaused
	}
	timerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))

	remaining := timer.Remaining(active, m.now)
	countdown := fmt.Sprintf("%02d:%02d", remaining/60, remaining%60)

	state := "paused"
	if active.Timer.IsRunning {
		state = "running"
	}

	sections := []string{
		"",
		timerStyle.Render(fmt.Sprintf("%s  %s  (%s)", domain.ModeLabel(active.Timer.Mode), countdown, state)),
	}

	total := int(m.settings.DurationFor(active.Timer.Mode).Seconds())
	if total > 0 {
		sections = append(sections, m.progress.ViewAs(1.0-float64(remaining)/float64(total)))
	}

	if active.IsLate(m.now) {
		lateStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorLate))
		over := m.now.Sub(active.PlannedEnd()).Round(time.Minute)
		sections = append(sections, lateStyle.Render(fmt.Sprintf("running over by %s", over)))
	}

	return sections
}

// truncate shortens a string to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
