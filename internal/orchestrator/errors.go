package orchestrator

import "fmt"

// AgentNotRegisteredError is returned when a workflow references an
// agent name that has not been registered.
type AgentNotRegisteredError struct {
	Name string
}

func (e *AgentNotRegisteredError) Error() string {
	return fmt.Sprintf("Agent '%s' not registered", e.Name)
}

// AgentExecutionError wraps a failure inside an agent's ExecuteTask,
// including timeouts.
type AgentExecutionError struct {
	Agent string
	Err   error
}

func (e *AgentExecutionError) Error() string {
	return fmt.Sprintf("agent %s execution failed: %v", e.Agent, e.Err)
}

func (e *AgentExecutionError) Unwrap() error { return e.Err }

// InvalidAgentError is returned when an agent registration is rejected.
type InvalidAgentError struct {
	Reason string
}

func (e *InvalidAgentError) Error() string {
	return fmt.Sprintf("invalid agent registration: %s", e.Reason)
}
