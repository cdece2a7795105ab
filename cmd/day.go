package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledan/tempo-cli/internal/domain"
)

var (
	dayClear  bool
	dayList   bool
	dayDelete bool
)

// dayCmd represents the day command
var dayCmd = &cobra.Command{
	Use:   "day [HH:MM]",
	Short: "Show or set the day's plan start",
	Long: `Show or set the clock time the day's first unanchored task starts at.
Without a plan start the sequence begins at "now". Pass HH:MM to set
it, or --clear to remove it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		now := time.Now()

		if dayList {
			keys, err := app.storage.Plans().ListDays(ctx)
			if err != nil {
				return fmt.Errorf("failed to list days: %w", err)
			}
			if jsonOutput {
				return printJSON(map[string]interface{}{"days": keys})
			}
			if len(keys) == 0 {
				fmt.Println("No stored day plans.")
				return nil
			}
			for _, k := range keys {
				fmt.Println(k)
			}
			return nil
		}

		day, err := dayArg()
		if err != nil {
			return err
		}

		if dayDelete {
			if err := app.storage.Plans().DeleteDay(ctx, day); err != nil {
				return fmt.Errorf("failed to delete day: %w", err)
			}
			fmt.Printf("🗑️  Deleted plan for %s.\n", day)
			return nil
		}

		if dayClear {
			if err := app.planner.SetPlanStart(ctx, day, nil, now); err != nil {
				return fmt.Errorf("failed to clear plan start: %w", err)
			}
			fmt.Printf("Plan start cleared for %s.\n", day)
			return nil
		}

		if len(args) == 1 {
			ct, err := domain.ParseClock(args[0])
			if err != nil {
				return fmt.Errorf("invalid plan start: %w", err)
			}
			ref, err := domain.ParseDayKey(day)
			if err != nil {
				return err
			}
			start := ct.Resolve(ref)
			if err := app.planner.SetPlanStart(ctx, day, &start, now); err != nil {
				return fmt.Errorf("failed to set plan start: %w", err)
			}
			fmt.Printf("Plan start for %s set to %s.\n", day, ct.String())
			return nil
		}

		plan, err := app.planner.Plan(ctx, day, now)
		if err != nil {
			return fmt.Errorf("failed to load schedule: %w", err)
		}
		if plan.PlanStart == nil {
			fmt.Printf("%s has no plan start; the sequence begins at now.\n", day)
		} else {
			fmt.Printf("%s starts at %s.\n", day, plan.PlanStart.Format("15:04"))
		}
		return nil
	},
}

func init() {
	dayCmd.Flags().BoolVar(&dayClear, "clear", false, "Remove the day's plan start")
	dayCmd.Flags().BoolVar(&dayList, "list", false, "List all stored day plans, newest first")
	dayCmd.Flags().BoolVar(&dayDelete, "delete", false, "Delete the day's stored plan entirely")
}
