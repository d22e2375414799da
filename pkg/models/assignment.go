// Package models defines the shared entities of the studio:
// task assignments, project analyses, execution records, and the
// agent message envelope.
package models

import "fmt"

// Action represents the kind of work an assignment asks an agent to perform.
type Action string

const (
	// ActionWriteCode indicates a code-writing assignment.
	ActionWriteCode Action = "Write code"
	// ActionTestCode indicates a testing assignment.
	ActionTestCode Action = "Test code"
)

// Valid returns true if the action is a known value.
func (a Action) Valid() bool {
	switch a {
	case ActionWriteCode, ActionTestCode:
		return true
	default:
		return false
	}
}

// TaskAssignment is one unit of work for one agent: a role/action/task
// triple produced by the decomposer. Assignments are never mutated after
// creation; compliance fixes replace the set rather than editing entries.
type TaskAssignment struct {
	// AgentRole is the registry identifier of the target agent
	// (e.g. "backend_coder").
	AgentRole string `json:"agent_role"`
	// RoleTitle is the human-readable role label
	// (e.g. "Senior Backend Developer").
	RoleTitle string `json:"role"`
	// Action is the kind of work requested.
	Action Action `json:"action"`
	// Task is the detailed task description. Never empty.
	Task string `json:"task"`
}

// Validate checks the assignment invariants.
func (t TaskAssignment) Validate() error {
	if t.Task == "" {
		return fmt.Errorf("assignment for %q has empty task description", t.AgentRole)
	}
	if !t.Action.Valid() {
		return fmt.Errorf("assignment for %q has unknown action %q", t.AgentRole, t.Action)
	}
	return nil
}

// ToMap converts the assignment to its wire form, keyed the same way the
// JSON output of the CLI is keyed.
func (t TaskAssignment) ToMap() map[string]string {
	return map[string]string{
		"role":   t.RoleTitle,
		"action": string(t.Action),
		"task":   t.Task,
	}
}

// AssignmentFromMap reconstructs a TaskAssignment from its wire form.
// Round-tripping through ToMap is lossless for role, action, and task.
func AssignmentFromMap(agentRole string, m map[string]string) TaskAssignment {
	return TaskAssignment{
		AgentRole: agentRole,
		RoleTitle: m["role"],
		Action:    Action(m["action"]),
		Task:      m["task"],
	}
}
