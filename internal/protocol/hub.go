// Package protocol implements the asynchronous agent-to-agent message
// layer: a CTO-style hub that routes typed envelopes by role, a
// per-sender FIFO dispatcher, and a health monitor with self-healing.
// It is layered above the synchronous orchestrator dispatch, for the
// deployment shape where agents are separate processes.
package protocol

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/agentix/studio/pkg/models"
)

// Subordinate is one agent participating in the protocol.
type Subordinate interface {
	// Role identifies the subordinate in the routing table.
	Role() models.AgentRole
	// HandleMessage processes one envelope addressed to this role and
	// optionally returns a reply.
	HandleMessage(ctx context.Context, msg models.AgentMessage) (*models.AgentMessage, error)
	// SelfHeal attempts to recover the subordinate after a reported or
	// detected failure.
	SelfHeal(ctx context.Context) error
}

// HubConfig holds the hub's construction options.
type HubConfig struct {
	// SelfHeal enables recovery attempts on error reports and stale
	// health check-ins.
	SelfHeal bool
}

// Hub is the CTO side of the protocol: it receives task requests,
// delegates them to mapped subordinates, acknowledges status updates,
// and drives recovery on error reports. It also keeps the message
// history and a shared context all subordinates can read.
type Hub struct {
	selfHeal bool

	mu           sync.RWMutex
	subordinates map[models.AgentRole]Subordinate
	taskRoutes   map[string]models.AgentRole
	history      []models.AgentMessage
	shared       map[string]any
}

// NewHub creates a hub with the default task-type routing table.
func NewHub(cfg HubConfig) *Hub {
	return &Hub{
		selfHeal:     cfg.SelfHeal,
		subordinates: make(map[models.AgentRole]Subordinate),
		taskRoutes: map[string]models.AgentRole{
			"backend":  models.RoleCoding,
			"coding":   models.RoleCoding,
			"frontend": models.RoleFrontend,
			"testing":  models.RoleTesting,
		},
		shared: make(map[string]any),
	}
}

// Register adds a subordinate to the hub's routing table.
func (h *Hub) Register(s Subordinate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subordinates[s.Role()] = s
}

// Subordinate returns the registered subordinate for a role.
func (h *Hub) Subordinate(role models.AgentRole) (Subordinate, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.subordinates[role]
	return s, ok
}

// Roles returns the registered subordinate roles.
func (h *Hub) Roles() []models.AgentRole {
	h.mu.RLock()
	defer h.mu.RUnlock()
	roles := make([]models.AgentRole, 0, len(h.subordinates))
	for role := range h.subordinates {
		roles = append(roles, role)
	}
	return roles
}

// HandleMessage runs the hub's message state machine over one envelope
// and returns the reply, if the protocol defines one.
func (h *Hub) HandleMessage(ctx context.Context, msg models.AgentMessage) *models.AgentMessage {
	h.record(msg)

	switch msg.Type {
	case models.MessageTaskRequest:
		return h.handleTaskRequest(msg)
	case models.MessageStatusUpdate:
		log.Printf("[hub] status from %s: %v", msg.Sender, msg.Content["status"])
		reply := models.NewAgentMessage(models.RoleCTO, msg.Sender, models.MessageAck, map[string]any{
			"received": true,
		})
		reply.TraceID = msg.TraceID
		return &reply
	case models.MessageErrorReport:
		return h.handleErrorReport(ctx, msg)
	default:
		reply := models.NewAgentMessage(models.RoleCTO, msg.Sender, models.MessageError, map[string]any{
			"error": fmt.Sprintf("unsupported message type %q", msg.Type),
		})
		reply.TraceID = msg.TraceID
		return &reply
	}
}

// handleTaskRequest resolves the task type to a subordinate role and
// synthesizes a task_assignment toward it, or an error envelope when
// the type is missing or unmapped.
func (h *Hub) handleTaskRequest(msg models.AgentMessage) *models.AgentMessage {
	taskType, ok := msg.Content["type"].(string)
	if !ok || taskType == "" {
		reply := models.NewAgentMessage(models.RoleCTO, msg.Sender, models.MessageError, map[string]any{
			"error": "task request has no type field",
		})
		reply.TraceID = msg.TraceID
		return &reply
	}

	h.mu.RLock()
	target, mapped := h.taskRoutes[taskType]
	_, registered := h.subordinates[target]
	h.mu.RUnlock()

	if !mapped || !registered {
		reply := models.NewAgentMessage(models.RoleCTO, msg.Sender, models.MessageError, map[string]any{
			"error": fmt.Sprintf("no subordinate available for task type %q", taskType),
		})
		reply.TraceID = msg.TraceID
		return &reply
	}

	assignment := models.NewAgentMessage(models.RoleCTO, target, models.MessageTaskAssignment, map[string]any{
		"description": msg.Content["description"],
		"assigned_by": string(models.RoleCTO),
	})
	assignment.TraceID = msg.TraceID
	h.record(assignment)
	return &assignment
}

// handleErrorReport attempts recovery on the reporting role when
// self-healing is enabled, then responds with the action taken.
func (h *Hub) handleErrorReport(ctx context.Context, msg models.AgentMessage) *models.AgentMessage {
	log.Printf("[hub] error report from %s: %v", msg.Sender, msg.Content["error"])

	action := "logged"
	if h.selfHeal {
		if sub, ok := h.Subordinate(msg.Sender); ok {
			if err := sub.SelfHeal(ctx); err != nil {
				log.Printf("[hub] self-heal for %s failed: %v", msg.Sender, err)
				action = "self_heal_failed"
			} else {
				action = "self_heal_attempted"
			}
		}
	}

	reply := models.NewAgentMessage(models.RoleCTO, msg.Sender, models.MessageErrorResponse, map[string]any{
		"action": action,
	})
	reply.TraceID = msg.TraceID
	return &reply
}

// Broadcast sends an envelope to every registered subordinate.
func (h *Hub) Broadcast(ctx context.Context, typ models.MessageType, content map[string]any) {
	h.mu.RLock()
	subs := make([]Subordinate, 0, len(h.subordinates))
	for _, s := range h.subordinates {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		msg := models.NewAgentMessage(models.RoleCTO, s.Role(), typ, content)
		h.record(msg)
		if _, err := s.HandleMessage(ctx, msg); err != nil {
			log.Printf("[hub] broadcast to %s failed: %v", s.Role(), err)
		}
	}
}

// SetShared stores a value in the shared context.
func (h *Hub) SetShared(key string, value any) {
	h.mu.Lock()
	h.shared[key] = value
	h.mu.Unlock()
}

// GetShared reads a value from the shared context.
func (h *Hub) GetShared(key string) (any, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	v, ok := h.shared[key]
	return v, ok
}

// History returns a copy of every envelope the hub has seen or produced.
func (h *Hub) History() []models.AgentMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]models.AgentMessage, len(h.history))
	copy(out, h.history)
	return out
}

func (h *Hub) record(msg models.AgentMessage) {
	h.mu.Lock()
	h.history = append(h.history, msg)
	h.mu.Unlock()
}
