package models

import "fmt"

// TaskResult is the payload an agent returns on success. The orchestrator
// treats it as opaque beyond success/failure; the fields exist so agents
// and the CLI can agree on a shape.
type TaskResult struct {
	// Output is the agent's human-readable summary of what it produced.
	Output string `json:"output"`
	// Files maps generated file names to their contents.
	Files map[string]string `json:"files,omitempty"`
	// ModelUsed names the model that produced the content, if any.
	ModelUsed string `json:"model_used,omitempty"`
	// TokensUsed is the number of tokens consumed, if known.
	TokensUsed int64 `json:"tokens_used,omitempty"`
}

// WorkflowSummary aggregates counts over one orchestration run.
// Invariant: Successful + Failed == TotalTasks.
type WorkflowSummary struct {
	TotalTasks int `json:"total_tasks"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	// SuccessRate is Successful/TotalTasks formatted as a percentage.
	// "0%" when TotalTasks is zero, never a division fault.
	SuccessRate string `json:"success_rate"`
}

// NewWorkflowSummary computes a summary from task counts.
func NewWorkflowSummary(total, successful int) WorkflowSummary {
	s := WorkflowSummary{
		TotalTasks: total,
		Successful: successful,
		Failed:     total - successful,
	}
	if total > 0 {
		s.SuccessRate = fmt.Sprintf("%.1f%%", float64(successful)/float64(total)*100)
	} else {
		s.SuccessRate = "0%"
	}
	return s
}

// WorkflowResult is the aggregate outcome of one orchestration run.
type WorkflowResult struct {
	// Success is true only when the Errors mapping is empty.
	Success bool `json:"success"`
	// Results maps agent names to their returned payloads.
	Results map[string]*TaskResult `json:"results"`
	// Errors maps agent names to the failure attributable to them.
	Errors map[string]string `json:"errors"`
	// Summary holds the aggregate counts.
	Summary WorkflowSummary `json:"summary"`
}
