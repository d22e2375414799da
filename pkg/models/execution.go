package models

import "time"

// ExecutionStatus represents the lifecycle state of a dispatched assignment.
type ExecutionStatus string

const (
	// StatusPending indicates the execution record exists but the agent
	// has not been invoked yet.
	StatusPending ExecutionStatus = "pending"
	// StatusInProgress indicates the agent is currently executing.
	StatusInProgress ExecutionStatus = "in_progress"
	// StatusCompleted indicates the agent returned a result.
	StatusCompleted ExecutionStatus = "completed"
	// StatusFailed indicates the agent reported a failure.
	StatusFailed ExecutionStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s ExecutionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// Terminal returns true if the status is final. Terminal states never
// transition again.
func (s ExecutionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether a transition from s to next is legal.
// The only legal path is Pending -> InProgress -> {Completed|Failed}.
func (s ExecutionStatus) CanTransition(next ExecutionStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// TaskExecution is the orchestrator-owned tracking record for one
// dispatched assignment. Agents never see or mutate these; they return a
// plain result or an error and the orchestrator wraps it.
type TaskExecution struct {
	// TaskID is the unique identifier for this execution.
	TaskID string `json:"task_id"`
	// AgentName is the registry name the assignment was dispatched to.
	AgentName string `json:"agent_name"`
	// Assignment is the dispatched assignment.
	Assignment TaskAssignment `json:"assignment"`
	// Status is the current lifecycle state.
	Status ExecutionStatus `json:"status"`
	// StartTime is when the agent was invoked, if it was.
	StartTime *time.Time `json:"start_time,omitempty"`
	// EndTime is when the execution reached a terminal state.
	EndTime *time.Time `json:"end_time,omitempty"`
	// Result is the agent's payload on success. Opaque to the orchestrator.
	Result *TaskResult `json:"result,omitempty"`
	// ErrorMessage is the captured failure message, if the agent failed.
	ErrorMessage string `json:"error_message,omitempty"`
}

// Duration returns the wall-clock time between start and end, or zero if
// the execution has not finished.
func (e *TaskExecution) Duration() time.Duration {
	if e.StartTime == nil || e.EndTime == nil {
		return 0
	}
	return e.EndTime.Sub(*e.StartTime)
}
