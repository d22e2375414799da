// Package agent defines the worker agents that carry out task
// assignments: a backend coder, a frontend coder, and a tester. Each
// agent turns an assignment into a prompt for the code generator and
// falls back to a static template when generation is unavailable.
package agent

import (
	"context"

	"github.com/agentix/studio/pkg/models"
)

// Agent is the contract every worker fulfils. Implementations must be
// safe for concurrent status reads while a task executes.
type Agent interface {
	// ExecuteTask performs one assignment and returns its result.
	// The context bounds the whole execution including generation calls.
	ExecuteTask(ctx context.Context, assignment models.TaskAssignment) (*models.TaskResult, error)
	// GetStatus reports the agent's current state, e.g. "idle" or
	// "working on: Implement REST API endpoints".
	GetStatus() string
	// GetCapabilities lists the feature areas the agent covers.
	GetCapabilities() []string
}

// Compile-time interface checks for the worker implementations.
var (
	_ Agent = (*BackendCoder)(nil)
	_ Agent = (*FrontendCoder)(nil)
	_ Agent = (*Tester)(nil)
)
