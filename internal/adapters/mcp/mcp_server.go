// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ledan/tempo-cli/internal/domain"
	"github.com/ledan/tempo-cli/internal/planner"
	"github.com/ledan/tempo-cli/internal/timer"
)

// Planner is the slice of the application layer the MCP tools drive.
type Planner interface {
	Plan(ctx context.Context, day string, now time.Time) (*domain.DayPlan, error)
	Add(ctx context.Context, day, title string, duration int, opts planner.AddOptions, now time.Time) (*domain.Task, error)
	Complete(ctx context.Context, day, id string, now time.Time) (*domain.Task, error)
	ToggleTimer(ctx context.Context, day, id string, now time.Time) (*domain.Task, error)
	SkipInterval(ctx context.Context, day, id string, now time.Time) (*domain.Task, error)
	FindTask(ctx context.Context, day, query string, now time.Time) (*domain.Task, error)
}

// Server exposes the day planner to MCP clients over stdio.
type Server struct {
	server  *server.MCPServer
	planner Planner
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(p Planner) *Server {
	s := &Server{
		planner: p,
	}

	s.server = server.NewMCPServer(
		"tempo-planner",
		"1.0.0",
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	// Tool: get_schedule
	scheduleTool := mcp.NewTool(
		"get_schedule",
		mcp.WithDescription("Get the recalculated schedule for a day: every task with its derived start time"),
		mcp.WithString(
			"date",
			mcp.Description("Day to read in YYYY-MM-DD form (default: today)"),
		),
	)
	s.server.AddTool(scheduleTool, s.handleGetSchedule)

	// Tool: add_task
	addTaskTool := mcp.NewTool(
		"add_task",
		mcp.WithDescription("Append a task to a day plan and reschedule it"),
		mcp.WithString(
			"title",
			mcp.Required(),
			mcp.Description("The title of the task"),
		),
		mcp.WithNumber(
			"duration_minutes",
			mcp.Description("Estimated duration in minutes (default: 30)"),
		),
		mcp.WithString(
			"anchor",
			mcp.Description("Optional fixed start time in HH:MM form"),
		),
		mcp.WithString(
			"date",
			mcp.Description("Day to add to in YYYY-MM-DD form (default: today)"),
		),
	)
	s.server.AddTool(addTaskTool, s.handleAddTask)

	// Tool: complete_task
	completeTaskTool := mcp.NewTool(
		"complete_task",
		mcp.WithDescription("Mark a task as completed; its duration snaps to the real elapsed time and later tasks rebase"),
		mcp.WithString(
			"task",
			mcp.Required(),
			mcp.Description("Task ID, ID prefix or fuzzy title query"),
		),
		mcp.WithString(
			"date",
			mcp.Description("Day to act on in YYYY-MM-DD form (default: today)"),
		),
	)
	s.server.AddTool(completeTaskTool, s.handleCompleteTask)

	// Tool: toggle_timer
	toggleTimerTool := mcp.NewTool(
		"toggle_timer",
		mcp.WithDescription("Start, resume or pause a task's focus timer"),
		mcp.WithString(
			"task",
			mcp.Required(),
			mcp.Description("Task ID, ID prefix or fuzzy title query"),
		),
		mcp.WithString(
			"date",
			mcp.Description("Day to act on in YYYY-MM-DD form (default: today)"),
		),
	)
	s.server.AddTool(toggleTimerTool, s.handleToggleTimer)

	// Tool: skip_interval
	skipIntervalTool := mcp.NewTool(
		"skip_interval",
		mcp.WithDescription("Fast-forward a task's current pomodoro or break interval"),
		mcp.WithString(
			"task",
			mcp.Required(),
			mcp.Description("Task ID, ID prefix or fuzzy title query"),
		),
		mcp.WithString(
			"date",
			mcp.Description("Day to act on in YYYY-MM-DD form (default: today)"),
		),
	)
	s.server.AddTool(skipIntervalTool, s.handleSkipInterval)

	// Tool: get_status
	statusTool := mcp.NewTool(
		"get_status",
		mcp.WithDescription("Get the active task and its timer state for a day"),
		mcp.WithString(
			"date",
			mcp.Description("Day to read in YYYY-MM-DD form (default: today)"),
		),
	)
	s.server.AddTool(statusTool, s.handleGetStatus)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// dayKey resolves the optional date argument, defaulting to today.
func dayKey(request mcp.CallToolRequest, now time.Time) string {
	if d := request.GetString("date", ""); d != "" {
		return d
	}
	return domain.DayKeyFor(now)
}

// handleGetSchedule handles the get_schedule tool.
func (s *Server) handleGetSchedule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := time.Now()
	day := dayKey(request, now)

	plan, err := s.planner.Plan(ctx, day, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	tasks := make([]map[string]interface{}, 0, len(plan.Tasks))
	for _, t := range plan.Tasks {
		tasks = append(tasks, taskJSON(t, now))
	}

	result := map[string]interface{}{
		"date":        plan.Key,
		"tasks":       tasks,
		"total_count": len(tasks),
	}
	if plan.ActiveTaskID != "" {
		result["active_task_id"] = plan.ActiveTaskID
	}
	if plan.PlanStart != nil {
		result["plan_start"] = plan.PlanStart.Format("15:04")
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schedule: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleAddTask handles the add_task tool.
func (s *Server) handleAddTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required: " + err.Error()), nil
	}

	duration := int(request.GetFloat("duration_minutes", 30))

	opts := planner.AddOptions{Index: -1}
	if a := request.GetString("anchor", ""); a != "" {
		ct, err := domain.ParseClock(a)
		if err != nil {
			return mcp.NewToolResultError("invalid anchor: " + err.Error()), nil
		}
		opts.Anchor = &ct
	}

	now := time.Now()
	task, err := s.planner.Add(ctx, dayKey(request, now), title, duration, opts, now)
	if err != nil {
		return nil, fmt.Errorf("failed to add task: %w", err)
	}

	return taskResult(task, now)
}

// handleCompleteTask handles the complete_task tool.
func (s *Server) handleCompleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, day, err := s.resolveTask(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	now := time.Now()
	completed, err := s.planner.Complete(ctx, day, task.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	return taskResult(completed, now)
}

// handleToggleTimer handles the toggle_timer tool.
func (s *Server) handleToggleTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, day, err := s.resolveTask(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	now := time.Now()
	toggled, err := s.planner.ToggleTimer(ctx, day, task.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle timer: %w", err)
	}

	return taskResult(toggled, now)
}

// handleSkipInterval handles the skip_interval tool.
func (s *Server) handleSkipInterval(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, day, err := s.resolveTask(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	now := time.Now()
	skipped, err := s.planner.SkipInterval(ctx, day, task.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to skip interval: %w", err)
	}

	return taskResult(skipped, now)
}

// handleGetStatus handles the get_status tool.
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := time.Now()
	day := dayKey(request, now)

	plan, err := s.planner.Plan(ctx, day, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	result := map[string]interface{}{
		"date":        plan.Key,
		"active_task": nil,
	}
	if active := plan.ActiveTask(); active != nil {
		result["active_task"] = taskJSON(active, now)
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// resolveTask resolves the required "task" argument to a concrete task.
func (s *Server) resolveTask(ctx context.Context, request mcp.CallToolRequest) (*domain.Task, string, error) {
	query, err := request.RequireString("task")
	if err != nil {
		return nil, "", fmt.Errorf("task is required: %w", err)
	}

	now := time.Now()
	day := dayKey(request, now)
	task, err := s.planner.FindTask(ctx, day, query, now)
	if err != nil {
		return nil, "", fmt.Errorf("cannot resolve task %q: %w", query, err)
	}
	return task, day, nil
}

// taskResult marshals one task as a tool result.
func taskResult(t *domain.Task, now time.Time) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(taskJSON(t, now), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// taskJSON renders a task for MCP clients.
func taskJSON(t *domain.Task, now time.Time) map[string]interface{} {
	data := map[string]interface{}{
		"id":               t.ID,
		"title":            t.Title,
		"status":           string(t.Status),
		"start_time":       t.StartTime.Format("15:04"),
		"end_time":         t.PlannedEnd().Format("15:04"),
		"duration_minutes": t.Duration,
		"pomodoros":        fmt.Sprintf("%d/%d", t.CompletedPomodoros, t.ExpectedPomodoros),
		"timer": map[string]interface{}{
			"mode":              string(t.Timer.Mode),
			"running":           t.Timer.IsRunning,
			"remaining_seconds": timer.Remaining(t, now),
		},
	}
	if t.AnchoredStart != nil {
		data["anchor"] = t.AnchoredStart.String()
	}
	if t.Notes != "" {
		data["notes"] = t.Notes
	}
	if t.GitBranch != "" {
		data["git_branch"] = t.GitBranch
	}
	if t.IsLate(now) {
		data["late"] = true
	}
	return data
}
