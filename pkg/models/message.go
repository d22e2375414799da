package models

// AgentRole identifies a participant in the asynchronous message protocol.
type AgentRole string

const (
	RoleCTO           AgentRole = "cto"
	RoleCoding        AgentRole = "coding"
	RoleFrontend      AgentRole = "frontend"
	RoleTesting       AgentRole = "testing"
	RoleSecurity      AgentRole = "security"
	RoleDocumentation AgentRole = "documentation"
	RoleDevOps        AgentRole = "devops"
)

// MessageType classifies an AgentMessage envelope.
type MessageType string

const (
	// MessageTaskRequest asks the hub to delegate a task to a subordinate.
	MessageTaskRequest MessageType = "task_request"
	// MessageTaskAssignment carries a delegated task toward its target role.
	MessageTaskAssignment MessageType = "task_assignment"
	// MessageStatusUpdate reports progress from a subordinate.
	MessageStatusUpdate MessageType = "status_update"
	// MessageErrorReport reports a failure from a subordinate.
	MessageErrorReport MessageType = "error_report"
	// MessageAck acknowledges receipt of a status update.
	MessageAck MessageType = "ack"
	// MessageError reports a protocol-level failure back to the sender.
	MessageError MessageType = "error"
	// MessageErrorResponse carries the recovery action taken for an
	// error report.
	MessageErrorResponse MessageType = "error_response"
)

// AgentMessage is the typed envelope of the asynchronous agent-to-agent
// protocol. It is routed by (sender, receiver, type) and layered above the
// synchronous orchestrator dispatch, for deployments where agents are
// separate processes.
type AgentMessage struct {
	// Sender is the role that produced the message.
	Sender AgentRole `json:"sender"`
	// Receiver is the role the message is addressed to.
	Receiver AgentRole `json:"receiver"`
	// Type classifies the envelope.
	Type MessageType `json:"message_type"`
	// Content is the message payload.
	Content map[string]any `json:"content"`
	// Priority orders messages of the same sender; higher is sooner.
	Priority int `json:"priority"`
	// TraceID correlates a request with its responses, if set.
	TraceID string `json:"trace_id,omitempty"`
}

// NewAgentMessage creates an envelope with the default priority.
func NewAgentMessage(sender, receiver AgentRole, typ MessageType, content map[string]any) AgentMessage {
	return AgentMessage{
		Sender:   sender,
		Receiver: receiver,
		Type:     typ,
		Content:  content,
		Priority: 1,
	}
}
