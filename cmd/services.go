package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ledan/tempo-cli/internal/adapters/git"
	"github.com/ledan/tempo-cli/internal/adapters/notification"
	"github.com/ledan/tempo-cli/internal/adapters/storage"
	"github.com/ledan/tempo-cli/internal/config"
	"github.com/ledan/tempo-cli/internal/domain"
	"github.com/ledan/tempo-cli/internal/planner"
	"github.com/ledan/tempo-cli/internal/ports"
	"github.com/ledan/tempo-cli/internal/timer"
)

// appDeps groups all dependencies initialized at startup.
type appDeps struct {
	config   *config.Config
	storage  ports.Storage
	engine   *timer.Engine
	planner  *planner.Planner
	notifier *notification.Notifier
	git      *git.Detector
}

// app holds all initialized dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	// Load configuration
	var err error
	app.config, err = config.Load()
	if err != nil {
		// If config loading fails, use defaults
		app.config = config.DefaultConfig()
	}

	// Initialize notifier
	app.notifier = notification.New(&app.config.Notifications)

	// Determine database path
	if dbPath == "" {
		dbPath = config.GetDBPath(app.config)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// Initialize storage
	app.storage, err = storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Initialize git detector
	app.git = git.NewDetector()

	// Initialize the timer engine and the planner
	app.engine = timer.NewEngine(app.config.ToTimerSettings(), app.notifier)
	app.planner = planner.New(app.storage, app.engine)

	return nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if app.storage != nil {
		return app.storage.Close()
	}
	return nil
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}

// dayArg resolves the --date flag, defaulting to today.
func dayArg() (string, error) {
	if dateFlag == "" {
		return domain.DayKeyFor(time.Now()), nil
	}
	if _, err := domain.ParseDayKey(dateFlag); err != nil {
		return "", fmt.Errorf("invalid --date %q: %w", dateFlag, err)
	}
	return dateFlag, nil
}

// applyDefaultPlanStart seeds the day's plan start from the configured
// day_start anchor when the plan has none of its own.
func applyDefaultPlanStart(ctx context.Context, day string, now time.Time) error {
	dayStart, err := app.config.DayStartClock()
	if err != nil || dayStart == nil {
		return err
	}

	plan, err := app.planner.Plan(ctx, day, now)
	if err != nil {
		return err
	}
	if plan.PlanStart != nil {
		return nil
	}

	ref, err := domain.ParseDayKey(day)
	if err != nil {
		return err
	}
	start := dayStart.Resolve(ref)
	return app.planner.SetPlanStart(ctx, day, &start, now)
}
