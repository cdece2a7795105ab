// Package config provides configuration management for Tempo.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/ledan/tempo-cli/internal/domain"
)

// Config holds all configuration for the Tempo application.
type Config struct {
	Timer         TimerConfig        `mapstructure:"timer"`
	Plan          PlanConfig         `mapstructure:"plan"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// TimerConfig holds focus timer settings.
type TimerConfig struct {
	PomodoroDuration   Duration `mapstructure:"pomodoro_duration"`
	ShortBreak         Duration `mapstructure:"short_break"`
	LongBreak          Duration `mapstructure:"long_break"`
	AutoStartBreaks    bool     `mapstructure:"auto_start_breaks"`
	AutoStartPomodoros bool     `mapstructure:"auto_start_pomodoros"`
}

// PlanConfig holds scheduling settings.
type PlanConfig struct {
	// DayStart is an optional "HH:MM" default plan-start anchor for days
	// without an explicit one. Empty means the plan starts at "now".
	DayStart string `mapstructure:"day_start"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// ThemeConfig holds theme customization settings.
type ThemeConfig struct {
	ColorFocus   string `mapstructure:"color_focus"`
	ColorBreak   string `mapstructure:"color_break"`
	ColorPaused  string `mapstructure:"color_paused"`
	ColorLate    string `mapstructure:"color_late"`
	ColorDone    string `mapstructure:"color_done"`
	ColorTitle   string `mapstructure:"color_title"`
	ColorHelp    string `mapstructure:"color_help"`
	DefaultTask  string `mapstructure:"default_task_color"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorFocus:  "#7C6FE0",
		ColorBreak:  "#4ECDC4",
		ColorPaused: "#6B7280",
		ColorLate:   "#E06C75",
		ColorDone:   "#2ECC71",
		ColorTitle:  "#6B7280",
		ColorHelp:   "#95A5A6",
		DefaultTask: "#A0AEC0",
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			PomodoroDuration: Duration(25 * time.Minute),
			ShortBreak:       Duration(5 * time.Minute),
			LongBreak:        Duration(15 * time.Minute),
		},
		Plan: PlanConfig{},
		Notifications: NotificationConfig{
			Enabled: true,
		},
		Storage: StorageConfig{
			DataDir: "~/.tempo",
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the config file.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("toml")

	setDefaults()

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand ~ in data directory
	if cfg.Storage.DataDir == "~/.tempo" || cfg.Storage.DataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.Storage.DataDir = filepath.Join(homeDir, ".tempo")
	}

	return &cfg, nil
}

// Save saves the configuration to the config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("toml")

	viper.Set("timer.pomodoro_duration", cfg.Timer.PomodoroDuration.String())
	viper.Set("timer.short_break", cfg.Timer.ShortBreak.String())
	viper.Set("timer.long_break", cfg.Timer.LongBreak.String())
	viper.Set("timer.auto_start_breaks", cfg.Timer.AutoStartBreaks)
	viper.Set("timer.auto_start_pomodoros", cfg.Timer.AutoStartPomodoros)
	viper.Set("plan.day_start", cfg.Plan.DayStart)
	viper.Set("notifications.enabled", cfg.Notifications.Enabled)
	viper.Set("storage.data_dir", cfg.Storage.DataDir)
	viper.Set("theme.color_focus", cfg.Theme.ColorFocus)
	viper.Set("theme.color_break", cfg.Theme.ColorBreak)
	viper.Set("theme.color_paused", cfg.Theme.ColorPaused)
	viper.Set("theme.color_late", cfg.Theme.ColorLate)
	viper.Set("theme.color_done", cfg.Theme.ColorDone)
	viper.Set("theme.color_title", cfg.Theme.ColorTitle)
	viper.Set("theme.color_help", cfg.Theme.ColorHelp)
	viper.Set("theme.default_task_color", cfg.Theme.DefaultTask)

	return viper.WriteConfig()
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".tempo", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "tempo.db")
}

// setDefaults sets default values for viper.
func setDefaults() {
	viper.SetDefault("timer.pomodoro_duration", "25m")
	viper.SetDefault("timer.short_break", "5m")
	viper.SetDefault("timer.long_break", "15m")
	viper.SetDefault("timer.auto_start_breaks", false)
	viper.SetDefault("timer.auto_start_pomodoros", false)
	viper.SetDefault("plan.day_start", "")
	viper.SetDefault("notifications.enabled", true)
	viper.SetDefault("storage.data_dir", "~/.tempo")

	defaults := DefaultThemeConfig()
	viper.SetDefault("theme.color_focus", defaults.ColorFocus)
	viper.SetDefault("theme.color_break", defaults.ColorBreak)
	viper.SetDefault("theme.color_paused", defaults.ColorPaused)
	viper.SetDefault("theme.color_late", defaults.ColorLate)
	viper.SetDefault("theme.color_done", defaults.ColorDone)
	viper.SetDefault("theme.color_title", defaults.ColorTitle)
	viper.SetDefault("theme.color_help", defaults.ColorHelp)
	viper.SetDefault("theme.default_task_color", defaults.DefaultTask)
}

// ToTimerSettings converts the config to the domain timer settings.
func (c *Config) ToTimerSettings() domain.TimerSettings {
	return domain.TimerSettings{
		PomodoroDuration:   time.Duration(c.Timer.PomodoroDuration),
		ShortBreakDuration: time.Duration(c.Timer.ShortBreak),
		LongBreakDuration:  time.Duration(c.Timer.LongBreak),
		AutoStartBreaks:    c.Timer.AutoStartBreaks,
		AutoStartPomodoros: c.Timer.AutoStartPomodoros,
	}
}

// DayStartClock parses the optional default plan-start anchor.
// Returns nil when no default is configured.
func (c *Config) DayStartClock() (*domain.ClockTime, error) {
	if c.Plan.DayStart == "" {
		return nil, nil
	}
	ct, err := domain.ParseClock(c.Plan.DayStart)
	if err != nil {
		return nil, fmt.Errorf("invalid plan.day_start: %w", err)
	}
	return &ct, nil
}
