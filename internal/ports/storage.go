package ports

import (
	"context"

	"github.com/ledan/tempo-cli/internal/domain"
)

// PlanRepository defines the interface for day-plan persistence.
// This is a driven port (implemented by adapters).
type PlanRepository interface {
	// LoadDay retrieves the plan stored under a day key. A day that was
	// never written yields an empty plan, not an error.
	LoadDay(ctx context.Context, key string) (*domain.DayPlan, error)

	// SaveDay persists the full plan for a day, replacing what was there.
	SaveDay(ctx context.Context, plan *domain.DayPlan) error

	// ListDays returns the keys of all stored plans, newest first.
	ListDays(ctx context.Context) ([]string, error)

	// DeleteDay removes a stored plan.
	DeleteDay(ctx context.Context, key string) error
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Plans provides access to day-plan operations.
	Plans() PlanRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
