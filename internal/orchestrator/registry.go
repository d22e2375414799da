package orchestrator

import (
	"log"
	"sync"

	"github.com/agentix/studio/internal/agent"
)

// AgentRegistry holds the registered agents keyed by name. Registration
// order is preserved so status listings are deterministic. Re-registering
// a name replaces the previous agent.
type AgentRegistry struct {
	mu     sync.RWMutex
	agents map[string]agent.Agent
	order  []string
}

// NewAgentRegistry creates an empty registry.
func NewAgentRegistry() *AgentRegistry {
	return &AgentRegistry{agents: make(map[string]agent.Agent)}
}

// Register adds an agent under the given name. An empty name or nil
// agent is rejected. Registering an existing name replaces the previous
// agent and logs a warning.
func (r *AgentRegistry) Register(name string, a agent.Agent) error {
	if name == "" {
		return &InvalidAgentError{Reason: "empty agent name"}
	}
	if a == nil {
		return &InvalidAgentError{Reason: "nil agent"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[name]; exists {
		log.Printf("[orchestrator] WARNING: agent %q re-registered, replacing previous", name)
	} else {
		r.order = append(r.order, name)
	}
	r.agents[name] = a
	return nil
}

// Get returns the agent registered under name.
func (r *AgentRegistry) Get(name string) (agent.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	if !ok {
		return nil, &AgentNotRegisteredError{Name: name}
	}
	return a, nil
}

// Names returns the registered agent names in registration order.
func (r *AgentRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Count returns the number of registered agents.
func (r *AgentRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
