package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// completeCmd represents the complete command
var completeCmd = &cobra.Command{
	Use:   "complete [task]",
	Short: "Toggle a task's completion",
	Long: `Mark a task as completed, or revert a completed task to pending.
Completing snaps the duration to the time actually spent (a task that
never started completes at zero cost) and rebases everything after it
off the real completion time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		now := time.Now()

		day, err := dayArg()
		if err != nil {
			return err
		}

		task, err := app.planner.FindTask(ctx, day, args[0], now)
		if err != nil {
			return fmt.Errorf("cannot resolve task %q: %w", args[0], err)
		}

		completed, err := app.planner.Complete(ctx, day, task.ID, now)
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		if jsonOutput {
			return printJSON(taskJSON(completed, now))
		}

		if completed.IsCompleted() {
			fmt.Printf("✅ Completed: %s (%dm)\n", completed.Title, completed.Duration)
		} else {
			fmt.Printf("↩️  Back to pending: %s\n", completed.Title)
		}
		return nil
	},
}
