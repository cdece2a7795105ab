package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [task]",
	Short: "Remove a task from the day plan",
	Args:  cobra.ExactArgs(1),
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

		if err := app.planner.Remove(ctx, day, task.ID, now); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		if jsonOutput {
			return printJSON(map[string]interface{}{"deleted": task.ID})
		}

		fmt.Printf("🗑️  Deleted: %s\n", task.Title)
		return nil
	},
}
