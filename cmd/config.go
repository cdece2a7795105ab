package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledan/tempo-cli/internal/config"
)

var (
	configPomodoro   string
	configShortBreak string
	configLongBreak  string
	configDayStart   string
	configNotify     string
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit timer and planning settings",
	Long: `Show the current configuration, or change individual settings with
flags. Changes are written back to ~/.tempo/config.toml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		changed := false

		if configPomodoro != "" {
			d, err := time.ParseDuration(configPomodoro)
			if err != nil {
				return fmt.Errorf("invalid --pomodoro: %w", err)
			}
			app.config.Timer.PomodoroDuration = config.Duration(d)
			changed = true
		}
		if configShortBreak != "" {
			d, err := time.ParseDuration(configShortBreak)
			if err != nil {
				return fmt.Errorf("invalid --short-break: %w", err)
			}
			app.config.Timer.ShortBreak = config.Duration(d)
			changed = true
		}
		if configLongBreak != "" {
			d, err := time.ParseDuration(configLongBreak)
			if err != nil {
				return fmt.Errorf("invalid --long-break: %w", err)
			}
			app.config.Timer.LongBreak = config.Duration(d)
			changed = true
		}
		if cmd.Flags().Changed("day-start") {
			app.config.Plan.DayStart = configDayStart
			if _, err := app.config.DayStartClock(); err != nil {
				return err
			}
			changed = true
		}
		if configNotify != "" {
			switch configNotify {
			case "on":
				app.config.Notifications.Enabled = true
			case "off":
				app.config.Notifications.Enabled = false
			default:
				return fmt.Errorf("invalid --notifications %q, want on or off", configNotify)
			}
			changed = true
		}

		if changed {
			if err := config.Save(app.config); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Println("Configuration saved.")
			fmt.Println()
		}

		configPath, _ := config.GetConfigPath()
		notifStatus := "off"
		if app.config.Notifications.Enabled {
			notifStatus = "on"
		}
		dayStart := app.config.Plan.DayStart
		if dayStart == "" {
			dayStart = "(none, plans start at now)"
		}

		fmt.Println("  Current configuration:")
		fmt.Println()
		fmt.Printf("    Pomodoro:       %s\n", app.config.Timer.PomodoroDuration)
		fmt.Printf("    Short break:    %s\n", app.config.Timer.ShortBreak)
		fmt.Printf("    Long break:     %s (every 4 pomodoros)\n", app.config.Timer.LongBreak)
		fmt.Printf("    Day start:      %s\n", dayStart)
		fmt.Printf("    Notifications:  %s\n", notifStatus)
		fmt.Println()
		fmt.Printf("  Config file: %s\n", configPath)
		return nil
	},
}

func init() {
	configCmd.Flags().StringVar(&configPomodoro, "pomodoro", "", "Pomodoro duration, e.g. 25m")
	configCmd.Flags().StringVar(&configShortBreak, "short-break", "", "Short break duration, e.g. 5m")
	configCmd.Flags().StringVar(&configLongBreak, "long-break", "", "Long break duration, e.g. 15m")
	configCmd.Flags().StringVar(&configDayStart, "day-start", "", "Default plan start (HH:MM), empty to clear")
	configCmd.Flags().StringVar(&configNotify, "notifications", "", "Desktop notifications: on or off")
}
