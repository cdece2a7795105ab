// Package storage provides SQLite implementations of the storage ports.
package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/ledan/tempo-cli/internal/ports"
)

// sqliteStorage implements the ports.Storage interface using SQLite.
type sqliteStorage struct {
	db       *sql.DB
	planRepo ports.PlanRepository
}

// Ensure sqliteStorage implements ports.Storage.
var _ ports.Storage = (*sqliteStorage)(nil)

// New creates a new SQLite storage instance.
func New(dbPath string) (ports.Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys and WAL mode for better performance
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	storage := &sqliteStorage{
		db:       db,
		planRepo: newPlanRepository(db),
	}

	if err := storage.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return storage, nil
}

// NewMemory creates a new in-memory SQLite storage instance for testing.
func NewMemory() (ports.Storage, error) {
	return New(":memory:")
}

// Plans returns the day-plan repository.
func (s *sqliteStorage) Plans() ports.PlanRepository {
	return s.planRepo
}

// Close closes the database connection.
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

// Migrate creates the database schema.
func (s *sqliteStorage) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS plans (
		day_key TEXT PRIMARY KEY,
		active_task_id TEXT,
		plan_start DATETIME
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		day_key TEXT NOT NULL,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		start_time DATETIME,
		duration_minutes INTEGER NOT NULL,
		status TEXT NOT NULL,
		color TEXT,
		notes TEXT,
		anchored_start TEXT,
		completed_pomodoros INTEGER NOT NULL DEFAULT 0,
		expected_pomodoros INTEGER NOT NULL DEFAULT 0,
		git_branch TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		timer_remaining_seconds INTEGER NOT NULL,
		timer_is_running INTEGER NOT NULL DEFAULT 0,
		timer_last_started_at DATETIME,
		timer_mode TEXT NOT NULL,
		FOREIGN KEY (day_key) REFERENCES plans(day_key) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_day ON tasks(day_key, position);
	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}
