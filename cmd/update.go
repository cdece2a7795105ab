package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledan/tempo-cli/internal/domain"
	"github.com/ledan/tempo-cli/internal/planner"
)

var (
	updateTitle       string
	updateDuration    int
	updateAt          string
	updateClearAnchor bool
	updateColor       string
	updateNotes       string
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update [task]",
	Short: "Edit a task",
	Long: `Edit a task's title, duration, anchor, color or notes. The task is
resolved by ID, ID prefix or fuzzy title match. Only the flags you pass
change; changing the duration also re-estimates the pomodoro count.`,
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

		var patch planner.TaskPatch
		if cmd.Flags().Changed("title") {
			patch.Title = &updateTitle
		}
		if cmd.Flags().Changed("duration") {
			patch.Duration = &updateDuration
		}
		if cmd.Flags().Changed("color") {
			patch.Color = &updateColor
		}
		if cmd.Flags().Changed("notes") {
			patch.Notes = &updateNotes
		}
		if updateClearAnchor {
			patch.SetAnchor = true
		}
		if updateAt != "" {
			ct, err := domain.ParseClock(updateAt)
			if err != nil {
				return fmt.Errorf("invalid --at: %w", err)
			}
			patch.SetAnchor = true
			patch.Anchor = &ct
		}

		updated, err := app.planner.Update(ctx, day, task.ID, patch, now)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		if jsonOutput {
			return printJSON(taskJSON(updated, now))
		}

		fmt.Printf("✏️  Task updated: %s at %s\n", updated.Title, updated.StartTime.Format("15:04"))
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "New title")
	updateCmd.Flags().IntVarP(&updateDuration, "duration", "d", 0, "New estimated duration in minutes")
	updateCmd.Flags().StringVar(&updateAt, "at", "", "Anchor the task to a fixed start time (HH:MM)")
	updateCmd.Flags().BoolVar(&updateClearAnchor, "clear-anchor", false, "Remove the task's anchor")
	updateCmd.Flags().StringVar(&updateColor, "color", "", "New display color")
	updateCmd.Flags().StringVar(&updateNotes, "notes", "", "New notes")
}
