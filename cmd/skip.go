package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledan/tempo-cli/internal/domain"
)

// skipCmd represents the skip command
var skipCmd = &cobra.Command{
	Use:   "skip [task]",
	Short: "Fast-forward the current pomodoro or break interval",
	Long: `End a task's current timer interval immediately and roll into the
next one of the cycle, exactly as if the countdown had expired.
Without an argument the day's active task is used.`,
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

		skipped, err := app.planner.SkipInterval(ctx, day, task.ID, now)
		if err != nil {
			return fmt.Errorf("failed to skip interval: %w", err)
		}

		if jsonOutput {
			return printJSON(taskJSON(skipped, now))
		}

		fmt.Printf("⏭  %s: now in %s\n", skipped.Title, domain.ModeLabel(skipped.Timer.Mode))
		return nil
	},
}
