// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/ledan/tempo-cli/internal/config"
	"github.com/ledan/tempo-cli/internal/domain"
	"github.com/ledan/tempo-cli/internal/ports"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg *config.NotificationConfig
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{cfg: cfg}
}

// IntervalFinished displays the completion alert for a finished interval.
func (n *Notifier) IntervalFinished(taskTitle string, finished, next domain.TimerMode) error {
	if !n.IsEnabled() {
		return nil
	}

	var title, message string
	if finished == domain.ModePomodoro {
		title = "🍅 Pomodoro Complete!"
		message = fmt.Sprintf("Nice work on %q. Up next: %s.", taskTitle, domain.ModeLabel(next))
	} else {
		title = "☕ Break Over!"
		message = fmt.Sprintf("Back to %q. Ready to focus?", taskTitle)
	}

	return beeep.Notify(title, message, "")
}

// SetEnabled toggles notifications at runtime.
func (n *Notifier) SetEnabled(enabled bool) {
	if n.cfg != nil {
		n.cfg.Enabled = enabled
	}
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}
