package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledan/tempo-cli/internal/domain"
	"github.com/ledan/tempo-cli/internal/planner"
)

var (
	addDuration int
	addAt       string
	addIndex    int
	addColor    string
	addNotes    string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a task to the day plan",
	Long: `Add a task to the day's sequence and reschedule it. The task gets no
start time of its own: its slot follows from its position. Use --at to
pin it to a fixed clock time instead.`,
	Args: cobra.MinimumNArgs(1),
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

		title := strings.Join(args, " ")

		// The flag is 1-based for humans; the planner counts from zero.
		idx := -1
		if addIndex > 0 {
			idx = addIndex - 1
		}
		opts := planner.AddOptions{
			Index: idx,
			Color: addColor,
			Notes: addNotes,
		}
		if addAt != "" {
			ct, err := domain.ParseClock(addAt)
			if err != nil {
				return fmt.Errorf("invalid --at: %w", err)
			}
			opts.Anchor = &ct
		}

		task, err := app.planner.Add(ctx, day, title, addDuration, opts, now)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		if jsonOutput {
			return printJSON(taskJSON(task, now))
		}

		fmt.Printf("✅ Task added: %s at %s (ID: %s)\n", task.Title, task.StartTime.Format("15:04"), task.ID[:8])
		return nil
	},
}

func init() {
	addCmd.Flags().IntVarP(&addDuration, "duration", "d", 30, "Estimated duration in minutes")
	addCmd.Flags().StringVar(&addAt, "at", "", "Anchor the task to a fixed start time (HH:MM)")
	addCmd.Flags().IntVar(&addIndex, "index", -1, "Insert position in the sequence, 1-based (default: append)")
	addCmd.Flags().StringVar(&addColor, "color", "", "Display color for the task")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Free-form notes")
}
