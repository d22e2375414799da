package protocol

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentix/studio/internal/agent"
	"github.com/agentix/studio/pkg/models"
)

// Worker adapts an in-process agent to the protocol: it executes
// task_assignment envelopes and reports back with status updates.
type Worker struct {
	role   models.AgentRole
	title  string
	action models.Action
	agent  agent.Agent

	mu        sync.Mutex
	lastError string
}

var _ Subordinate = (*Worker)(nil)

// NewWorker wraps an agent as a protocol subordinate.
func NewWorker(role models.AgentRole, title string, action models.Action, a agent.Agent) *Worker {
	return &Worker{role: role, title: title, action: action, agent: a}
}

// Role identifies the worker in the routing table.
func (w *Worker) Role() models.AgentRole {
	return w.role
}

// HandleMessage executes task assignments and replies with a status
// update; other message types are acknowledged without action.
func (w *Worker) HandleMessage(ctx context.Context, msg models.AgentMessage) (*models.AgentMessage, error) {
	if msg.Type != models.MessageTaskAssignment {
		return nil, nil
	}

	description, _ := msg.Content["description"].(string)
	assignment := models.TaskAssignment{
		AgentRole: string(w.role),
		RoleTitle: w.title,
		Action:    w.action,
		Task:      description,
	}

	result, err := w.agent.ExecuteTask(ctx, assignment)
	if err != nil {
		w.mu.Lock()
		w.lastError = err.Error()
		w.mu.Unlock()
		report := models.NewAgentMessage(w.role, msg.Sender, models.MessageErrorReport, map[string]any{
			"error": err.Error(),
		})
		report.TraceID = msg.TraceID
		return &report, nil
	}

	update := models.NewAgentMessage(w.role, msg.Sender, models.MessageStatusUpdate, map[string]any{
		"status": "completed",
		"output": result.Output,
	})
	update.TraceID = msg.TraceID
	return &update, nil
}

// SelfHeal clears the worker's recorded failure state.
func (w *Worker) SelfHeal(context.Context) error {
	w.mu.Lock()
	w.lastError = ""
	w.mu.Unlock()
	return nil
}

// CheckHealth reports the last unrecovered failure, if any.
func (w *Worker) CheckHealth() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.lastError != "" {
		return fmt.Errorf("last task failed: %s", w.lastError)
	}
	return nil
}
