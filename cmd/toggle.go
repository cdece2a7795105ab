package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledan/tempo-cli/internal/domain"
	"github.com/ledan/tempo-cli/internal/timer"
)

// toggleCmd represents the toggle command
var toggleCmd = &cobra.Command{
	Use:   "toggle [task]",
	Short: "Start, resume or pause a task's focus timer",
	Long: `Toggle a task's focus timer. Starting one task's timer pauses any
other running timer, so at most one timer counts down at a time.
Without an argument the day's active task is toggled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		now := time.Now()

		day, err := dayArg()
		if err != nil {
			return err
		}

		task, err := resolveTaskOrActive(ctx, day, args, now)
		if err != nil {
			return err
		}

		toggled, err := app.planner.ToggleTimer(ctx, day, task.ID, now)
		if err != nil {
			return fmt.Errorf("failed to toggle timer: %w", err)
		}

		if jsonOutput {
			return printJSON(taskJSON(toggled, now))
		}

		state := "paused"
		if toggled.Timer.IsRunning {
			state = "running"
		}
		fmt.Printf("⏱  %s: %s %s (%s)\n", toggled.Title,
			domain.ModeLabel(toggled.Timer.Mode),
			formatSeconds(timer.Remaining(toggled, now)), state)
		return nil
	},
}

// resolveTaskOrActive resolves an optional task argument, falling back to
// the day's active task.
func resolveTaskOrActive(ctx context.Context, day string, args []string, now time.Time) (*domain.Task, error) {
	if len(args) > 0 {
		task, err := app.planner.FindTask(ctx, day, args[0], now)
		if err != nil {
			return nil, fmt.Errorf("cannot resolve task %q: %w", args[0], err)
		}
		return task, nil
	}

	plan, err := app.planner.Plan(ctx, day, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if active := plan.ActiveTask(); active != nil {
		return active, nil
	}
	return nil, fmt.Errorf("no active task; pass one or run \"tempo start\"")
}
