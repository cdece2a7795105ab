package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"github.com/ledan/tempo-cli/internal/config"
	"github.com/ledan/tempo-cli/internal/domain"
)

// getTerminalWidth returns the current terminal width, defaulting to 80.
func getTerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < 40 {
		return 80
	}
	return w
}

// Run launches the day dashboard and blocks until the user quits.
func Run(ctx context.Context, svc PlanService, day string, settings domain.TimerSettings, theme *config.ThemeConfig) error {
	model := NewModel(ctx, svc, day, settings, theme)
	program := tea.NewProgram(model, tea.WithAltScreen())

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			program.Quit()
		case <-done:
		}
	}()

	_, err := program.Run()
	close(done)
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// ShowError displays an error message on stderr.
func ShowError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
