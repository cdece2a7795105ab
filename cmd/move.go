package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// moveCmd represents the move command
var moveCmd = &cobra.Command{
	Use:   "move [from] [to]",
	Short: "Move a task to another position in the sequence",
	Long: `Move a task from one position to another (1-based, as shown by "tempo
list"). The rest of the sequence keeps its order and the whole day is
rescheduled.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		now := time.Now()

		day, err := dayArg()
		if err != nil {
			return err
		}

		from, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid position %q", args[0])
		}
		to, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid position %q", args[1])
		}

		if err := app.planner.Reorder(ctx, day, from-1, to-1, now); err != nil {
			return fmt.Errorf("failed to move task: %w", err)
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
			return printJSON(map[string]interface{}{"date": plan.Key, "tasks": taskList})
		}

		printPlan(plan, now)
		return nil
	},
}
