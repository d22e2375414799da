package orchestrator

import (
	"fmt"
	"sync"
	"time"

	"github.com/agentix/studio/pkg/models"
)

// ExecutionTracker owns the task queue and the completed-execution log
// for one workflow. It enforces the execution lifecycle: pending ->
// in_progress -> {completed|failed}, with no transitions out of a
// terminal state.
type ExecutionTracker struct {
	mu        sync.RWMutex
	queue     []*models.TaskExecution
	active    map[string]*models.TaskExecution
	completed []*models.TaskExecution
}

// NewExecutionTracker creates an empty tracker.
func NewExecutionTracker() *ExecutionTracker {
	return &ExecutionTracker{active: make(map[string]*models.TaskExecution)}
}

// Enqueue appends a pending execution record for the assignment.
func (t *ExecutionTracker) Enqueue(taskID, agentName string, assignment models.TaskAssignment) *models.TaskExecution {
	exec := &models.TaskExecution{
		TaskID:     taskID,
		AgentName:  agentName,
		Assignment: assignment,
		Status:     models.StatusPending,
	}
	t.mu.Lock()
	t.queue = append(t.queue, exec)
	t.mu.Unlock()
	return exec
}

// Dequeue removes and returns the next pending execution, or nil when
// the queue is empty.
func (t *ExecutionTracker) Dequeue() *models.TaskExecution {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.queue) == 0 {
		return nil
	}
	exec := t.queue[0]
	t.queue = t.queue[1:]
	return exec
}

// Start transitions an execution to in_progress and stamps its start time.
func (t *ExecutionTracker) Start(exec *models.TaskExecution) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := transition(exec, models.StatusInProgress); err != nil {
		return err
	}
	now := time.Now()
	exec.StartTime = &now
	t.active[exec.TaskID] = exec
	return nil
}

// Complete transitions an execution to completed with its result.
func (t *ExecutionTracker) Complete(exec *models.TaskExecution, result *models.TaskResult) error {
	return t.finish(exec, models.StatusCompleted, result, "")
}

// Fail transitions an execution to failed with the failure message.
func (t *ExecutionTracker) Fail(exec *models.TaskExecution, message string) error {
	return t.finish(exec, models.StatusFailed, nil, message)
}

func (t *ExecutionTracker) finish(exec *models.TaskExecution, status models.ExecutionStatus, result *models.TaskResult, message string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := transition(exec, status); err != nil {
		return err
	}
	now := time.Now()
	exec.EndTime = &now
	exec.Result = result
	exec.ErrorMessage = message
	delete(t.active, exec.TaskID)
	t.completed = append(t.completed, exec)
	return nil
}

func transition(exec *models.TaskExecution, next models.ExecutionStatus) error {
	if !exec.Status.CanTransition(next) {
		return fmt.Errorf("illegal status transition %s -> %s for task %s",
			exec.Status, next, exec.TaskID)
	}
	exec.Status = next
	return nil
}

// QueueSize returns the number of executions waiting for dispatch.
func (t *ExecutionTracker) QueueSize() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.queue)
}

// Completed returns the executions that reached a terminal state, in
// completion order.
func (t *ExecutionTracker) Completed() []*models.TaskExecution {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*models.TaskExecution, len(t.completed))
	copy(out, t.completed)
	return out
}

// ActiveTasks returns a description of each in-progress execution.
func (t *ExecutionTracker) ActiveTasks() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tasks := make([]string, 0, len(t.active))
	for _, exec := range t.active {
		tasks = append(tasks, fmt.Sprintf("%s: %s", exec.AgentName, exec.Assignment.Task))
	}
	return tasks
}

// Reset clears the tracker for a new workflow.
func (t *ExecutionTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queue = nil
	t.completed = nil
	t.active = make(map[string]*models.TaskExecution)
}

// Progress returns completed and total execution counts for the
// current workflow.
func (t *ExecutionTracker) Progress() (done, total int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	done = len(t.completed)
	total = len(t.completed) + len(t.active) + len(t.queue)
	return done, total
}
