package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the day's schedule",
	Long: `Show the day's tasks with their derived start times. The schedule is
recalculated on every read, so an overrunning task is already reflected
in the times you see.`,
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
			taskList := make([]map[string]interface{}, 0, len(plan.Tasks))
			for _, t := range plan.Tasks {
				taskList = append(taskList, taskJSON(t, now))
			}
			data := map[string]interface{}{
				"date":  plan.Key,
				"tasks": taskList,
				"count": len(taskList),
			}
			if plan.ActiveTaskID != "" {
				data["active_task_id"] = plan.ActiveTaskID
			}
			if plan.PlanStart != nil {
				data["plan_start"] = plan.PlanStart.Format("15:04")
			}
			return printJSON(data)
		}

		printPlan(plan, now)
		return nil
	},
}
