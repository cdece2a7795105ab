package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledan/tempo-cli/internal/domain"
	"github.com/ledan/tempo-cli/internal/timer"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active task and its timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		now := time.Now()

		day, err := dayArg()
		if err != nil {
			return err
		}

		plan, err := app.planner.Plan(ctx, day, now)
		if err != nil {
			return fmt.Errorf("failed to load schedule: %w", err)
		}

		if jsonOutput {
			data := map[string]interface{}{
				"date":        plan.Key,
				"active_task": nil,
			}
			if active := plan.ActiveTask(); active != nil {
				data["active_task"] = taskJSON(active, now)
			}
			return printJSON(data)
		}

		active := plan.ActiveTask()
		if active == nil {
			fmt.Printf("No active task on %s.\n", plan.Key)
			return nil
		}

		state := "paused"
		if active.Timer.IsRunning {
			state = "running"
		}

		fmt.Printf("▶️  %s\n", active.Title)
		fmt.Printf("   Slot: %s–%s (%dm)\n", active.StartTime.Format("15:04"), active.PlannedEnd().Format("15:04"), active.Duration)
		fmt.Printf("   Timer: %s %s (%s)\n", domain.ModeLabel(active.Timer.Mode), formatSeconds(timer.Remaining(active, now)), state)
		fmt.Printf("   Pomodoros: %d/%d\n", active.CompletedPomodoros, active.ExpectedPomodoros)
		if active.IsLate(now) {
			over := now.Sub(active.PlannedEnd()).Round(time.Minute)
			fmt.Printf("   ⏰ Running over by %s; later tasks have been pushed.\n", over)
		}
		if active.GitBranch != "" {
			fmt.Printf("   Git: %s\n", active.GitBranch)
		}
		return nil
	},
}
