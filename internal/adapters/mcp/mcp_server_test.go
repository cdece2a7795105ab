package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ledan/tempo-cli/internal/domain"
	"github.com/ledan/tempo-cli/internal/planner"
)

// mockPlanner is a canned-response planner for handler tests.
type mockPlanner struct {
	plan      *domain.DayPlan
	added     []string
	completed []string
	toggled   []string
	skipped   []string
}

func (m *mockPlanner) Plan(_ context.Context, _ string, _ time.Time) (*domain.DayPlan, error) {
	return m.plan, nil
}

func (m *mockPlanner) Add(_ context.Context, _ string, title string, duration int, opts planner.AddOptions, _ time.Time) (*domain.Task, error) {
	task, err := domain.NewTask(title, duration, domain.DefaultTimerSettings())
	if err != nil {
		return nil, err
	}
	task.AnchoredStart = opts.Anchor
	m.added = append(m.added, title)
	m.plan.Tasks = append(m.plan.Tasks, task)
	return task, nil
}

func (m *mockPlanner) Complete(_ context.Context, _ string, id string, _ time.Time) (*domain.Task, error) {
	m.completed = append(m.completed, id)
	return m.taskByID(id)
}

func (m *mockPlanner) ToggleTimer(_ context.Context, _ string, id string, _ time.Time) (*domain.Task, error) {
	m.toggled = append(m.toggled, id)
	return m.taskByID(id)
}

func (m *mockPlanner) SkipInterval(_ context.Context, _ string, id string, _ time.Time) (*domain.Task, error) {
	m.skipped = append(m.skipped, id)
	return m.taskByID(id)
}

func (m *mockPlanner) FindTask(_ context.Context, _ string, query string, _ time.Time) (*domain.Task, error) {
	for _, t := range m.plan.Tasks {
		if t.ID == query || strings.Contains(t.Title, query) {
			return t, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (m *mockPlanner) taskByID(id string) (*domain.Task, error) {
	for _, t := range m.plan.Tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func newMockPlanner(t *testing.T, titles ...string) *mockPlanner {
	t.Helper()
	plan := &domain.DayPlan{Key: "2025-03-10"}
	for _, title := range titles {
		task, err := domain.NewTask(title, 30, domain.DefaultTimerSettings())
		if err != nil {
			t.Fatalf("NewTask() error = %v", err)
		}
		plan.Tasks = append(plan.Tasks, task)
	}
	return &mockPlanner{plan: plan}
}

func TestNewServer(t *testing.T) {
	mock := newMockPlanner(t)
	server := NewServer(mock)

	if server == nil {
		t.Fatal("NewServer() returned nil")
	}
	if server.planner != Planner(mock) {
		t.Error("NewServer() did not set planner correctly")
	}
	if server.server == nil {
		t.Error("NewServer() did not create MCP server")
	}
}

func TestServer_IsRunning(t *testing.T) {
	server := NewServer(newMockPlanner(t))

	if server.IsRunning() {
		t.Error("IsRunning() should return false before Start()")
	}
}

func TestHandleGetSchedule(t *testing.T) {
	mock := newMockPlanner(t, "write report", "standup")
	server := NewServer(mock)

	request := mcp.CallToolRequest{}
	result, err := server.handleGetSchedule(context.Background(), request)
	if err != nil {
		t.Fatalf("handleGetSchedule() error = %v", err)
	}

	var payload struct {
		Date       string                   `json:"date"`
		Tasks      []map[string]interface{} `json:"tasks"`
		TotalCount int                      `json:"total_count"`
	}
	decodeResult(t, result, &payload)

	if payload.TotalCount != 2 {
		t.Errorf("total_count = %d, want 2", payload.TotalCount)
	}
	if payload.Tasks[0]["title"] != "write report" {
		t.Errorf("first task = %v, want write report", payload.Tasks[0]["title"])
	}
}

func TestHandleAddTask(t *testing.T) {
	mock := newMockPlanner(t)
	server := NewServer(mock)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{
				"title":            "deep work",
				"duration_minutes": float64(50),
				"anchor":           "09:30",
			},
		},
	}
	result, err := server.handleAddTask(context.Background(), request)
	if err != nil {
		t.Fatalf("handleAddTask() error = %v", err)
	}

	var payload map[string]interface{}
	decodeResult(t, result, &payload)

	if payload["title"] != "deep work" {
		t.Errorf("title = %v, want deep work", payload["title"])
	}
	if payload["duration_minutes"] != float64(50) {
		t.Errorf("duration = %v, want 50", payload["duration_minutes"])
	}
	if payload["anchor"] != "09:30" {
		t.Errorf("anchor = %v, want 09:30", payload["anchor"])
	}
	if len(mock.added) != 1 {
		t.Errorf("added = %v, want one task", mock.added)
	}
}

func TestHandleAddTask_MissingTitle(t *testing.T) {
	server := NewServer(newMockPlanner(t))

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{},
		},
	}
	result, err := server.handleAddTask(context.Background(), request)
	if err != nil {
		t.Fatalf("handleAddTask() error = %v", err)
	}
	if result == nil || !result.IsError {
		t.Error("a missing title should produce a tool error result")
	}
}

func TestHandleCompleteTask_ResolvesByTitle(t *testing.T) {
	mock := newMockPlanner(t, "write report")
	server := NewServer(mock)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{
				"task": "report",
			},
		},
	}
	result, err := server.handleCompleteTask(context.Background(), request)
	if err != nil {
		t.Fatalf("handleCompleteTask() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("handleCompleteTask() returned tool error: %v", result)
	}
	if len(mock.completed) != 1 || mock.completed[0] != mock.plan.Tasks[0].ID {
		t.Errorf("completed = %v, want the resolved task", mock.completed)
	}
}

func TestHandleToggleTimer_UnknownTask(t *testing.T) {
	server := NewServer(newMockPlanner(t))

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{
				"task": "nope",
			},
		},
	}
	result, err := server.handleToggleTimer(context.Background(), request)
	if err != nil {
		t.Fatalf("handleToggleTimer() error = %v", err)
	}
	if result == nil || !result.IsError {
		t.Error("an unresolvable task should produce a tool error result")
	}
}

// decodeResult unmarshals the text content of a tool result.
func decodeResult(t *testing.T, result *mcp.CallToolResult, v interface{}) {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("tool result content is %T, want text", result.Content[0])
	}
	if err := json.Unmarshal([]byte(text.Text), v); err != nil {
		t.Fatalf("failed to decode tool result: %v", err)
	}
}
