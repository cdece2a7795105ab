package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledan/tempo-cli/internal/adapters/tui"
	"github.com/ledan/tempo-cli/internal/domain"
	"github.com/ledan/tempo-cli/internal/planner"
)

var startNoTUI bool

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start [task]",
	Short: "Focus on a task and open the dashboard",
	Long: `Make a task the day's active task, record the current git branch on it
and open the interactive dashboard. Without an argument the first
pending task of the day is picked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		now := time.Now()

		day, err := dayArg()
		if err != nil {
			return err
		}
		if err := applyDefaultPlanStart(ctx, day, now); err != nil {
			return err
		}

		var task *domain.Task
		if len(args) > 0 {
			task, err = app.planner.FindTask(ctx, day, args[0], now)
			if err != nil {
				return fmt.Errorf("cannot resolve task %q: %w", args[0], err)
			}
		} else {
			task, err = firstPendingTask(ctx, day, now)
			if err != nil {
				return err
			}
		}

		if _, err := app.planner.Select(ctx, day, task.ID, now); err != nil {
			return fmt.Errorf("failed to select task: %w", err)
		}

		// Attach the current git branch so the plan records the context
		// this task was worked in. Best effort only.
		workingDir, _ := os.Getwd()
		if branch, err := app.git.CurrentBranch(workingDir); err == nil && branch != "" {
			patch := planner.TaskPatch{GitBranch: &branch}
			if _, err := app.planner.Update(ctx, day, task.ID, patch, now); err != nil {
				return fmt.Errorf("failed to record git branch: %w", err)
			}
		}

		if startNoTUI {
			fmt.Printf("▶️  Focusing: %s\n", task.Title)
			return nil
		}

		return tui.Run(setupSignalHandler(), app.planner, day, app.engine.Settings(), &app.config.Theme)
	},
}

// firstPendingTask picks the first not-yet-completed task of the day.
func firstPendingTask(ctx context.Context, day string, now time.Time) (*domain.Task, error) {
	plan, err := app.planner.Plan(ctx, day, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	for _, t := range plan.Tasks {
		if !t.IsCompleted() {
			return t, nil
		}
	}
	return nil, fmt.Errorf("nothing left to do on %s", day)
}

func init() {
	startCmd.Flags().BoolVar(&startNoTUI, "no-tui", false, "Select the task without opening the dashboard")
}
