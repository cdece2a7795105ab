// Package ports defines the interfaces (driven and driving ports)
// for the Tempo application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import "github.com/ledan/tempo-cli/internal/domain"

// Notifier delivers the completion alert when a timer interval finishes.
// This is a driven port (implemented by adapters).
type Notifier interface {
	// IntervalFinished announces that a task's interval ended and which
	// mode the timer rolled into.
	IntervalFinished(taskTitle string, finished, next domain.TimerMode) error
}
