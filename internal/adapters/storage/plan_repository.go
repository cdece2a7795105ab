package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ledan/tempo-cli/internal/domain"
	"github.com/ledan/tempo-cli/internal/ports"
)

// planRepository implements ports.PlanRepository using SQLite.
type planRepository struct {
	db *sql.DB
}

// newPlanRepository creates a new day-plan repository.
func newPlanRepository(db *sql.DB) ports.PlanRepository {
	return &planRepository{db: db}
}

// LoadDay retrieves the plan stored under a day key. A day that was never
// written yields an empty plan.
func (r *planRepository) LoadDay(ctx context.Context, key string) (*domain.DayPlan, error) {
	plan := &domain.DayPlan{Key: key}

	var activeID sql.NullString
	var planStart sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT active_task_id, plan_start FROM plans WHERE day_key = ?`, key,
	).Scan(&activeID, &planStart)
	if err == sql.ErrNoRows {
		return plan, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	if activeID.Valid {
		plan.ActiveTaskID = activeID.String
	}
	if planStart.Valid {
		ts := planStart.Time.Local()
		plan.PlanStart = &ts
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, start_time, duration_minutes, status, color, notes,
		       anchored_start, completed_pomodoros, expected_pomodoros, git_branch,
		       created_at, updated_at,
		       timer_remaining_seconds, timer_is_running, timer_last_started_at, timer_mode
		FROM tasks
		WHERE day_key = ?
		ORDER BY position
	`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		plan.Tasks = append(plan.Tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	return plan, nil
}

// SaveDay persists the full plan for a day, replacing what was there.
// The whole sequence is rewritten in one transaction; the coordinator
// rewrites every start time on each pass anyway, so per-row updates
// would buy nothing.
func (r *planRepository) SaveDay(ctx context.Context, plan *domain.DayPlan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var activeID interface{}
	if plan.ActiveTaskID != "" {
		activeID = plan.ActiveTaskID
	}
	var planStart interface{}
	if plan.PlanStart != nil {
		planStart = *plan.PlanStart
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO plans (day_key, active_task_id, plan_start) VALUES (?, ?, ?)
		ON CONFLICT(day_key) DO UPDATE SET active_task_id = excluded.active_task_id,
		                                   plan_start = excluded.plan_start
	`, plan.Key, activeID, planStart)
	if err != nil {
		return fmt.Errorf("failed to save plan row: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE day_key = ?`, plan.Key); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (id, day_key, position, title, start_time, duration_minutes,
		                   status, color, notes, anchored_start,
		                   completed_pomodoros, expected_pomodoros, git_branch,
		                   created_at, updated_at,
		                   timer_remaining_seconds, timer_is_running, timer_last_started_at, timer_mode)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for pos, t := range plan.Tasks {
		var anchor interface{}
		if t.AnchoredStart != nil {
			anchor = t.AnchoredStart.String()
		}
		var lastStarted interface{}
		if t.Timer.LastStartedAt != nil {
			lastStarted = *t.Timer.LastStartedAt
		}

		_, err := stmt.ExecContext(ctx,
			t.ID, plan.Key, pos, t.Title, t.StartTime, t.Duration,
			string(t.Status), t.Color, t.Notes, anchor,
			t.CompletedPomodoros, t.ExpectedPomodoros, t.GitBranch,
			t.CreatedAt, t.UpdatedAt,
			t.Timer.RemainingSeconds, t.Timer.IsRunning, lastStarted, string(t.Timer.Mode),
		)
		if err != nil {
			return fmt.Errorf("failed to save task %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit plan: %w", err)
	}
	return nil
}

// ListDays returns the keys of all stored plans, newest first.
func (r *planRepository) ListDays(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT day_key FROM plans ORDER BY day_key DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list days: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan day key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// DeleteDay removes a stored plan and its tasks.
func (r *planRepository) DeleteDay(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE day_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete tasks: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE day_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil
}

// scanTask reads one task row.
func scanTask(rows *sql.Rows) (*domain.Task, error) {
	var task domain.Task
	var startTime sql.NullTime
	var color, notes, anchor, branch sql.NullString
	var lastStarted sql.NullTime
	var mode string

	err := rows.Scan(
		&task.ID, &task.Title, &startTime, &task.Duration, &task.Status,
		&color, &notes, &anchor,
		&task.CompletedPomodoros, &task.ExpectedPomodoros, &branch,
		&task.CreatedAt, &task.UpdatedAt,
		&task.Timer.RemainingSeconds, &task.Timer.IsRunning, &lastStarted, &mode,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	if startTime.Valid {
		task.StartTime = startTime.Time.Local()
	}
	task.Color = color.String
	task.Notes = notes.String
	task.GitBranch = branch.String
	if anchor.Valid && anchor.String != "" {
		ct, err := domain.ParseClock(anchor.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt anchor %q: %w", anchor.String, err)
		}
		task.AnchoredStart = &ct
	}
	if lastStarted.Valid {
		ts := lastStarted.Time.Local()
		task.Timer.LastStartedAt = &ts
	}
	task.Timer.Mode = domain.TimerMode(mode)

	// Persisted state may predate a crash mid-toggle; re-assert the
	// running/timestamp invariant on the way in.
	if task.Timer.IsRunning && task.Timer.LastStartedAt == nil {
		task.Timer.IsRunning = false
	}

	return &task, nil
}
