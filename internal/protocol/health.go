package protocol

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/agentix/studio/pkg/models"
)

// HealthState is the monitor's view of one subordinate.
type HealthState string

const (
	// HealthHealthy means the subordinate checked in recently.
	HealthHealthy HealthState = "healthy"
	// HealthDegraded means the last poll reported an error.
	HealthDegraded HealthState = "degraded"
	// HealthUnresponsive means the subordinate missed its check-in
	// window.
	HealthUnresponsive HealthState = "unresponsive"
)

// HealthChecker is implemented by subordinates that can be actively
// polled. Subordinates without it are judged on check-ins alone.
type HealthChecker interface {
	CheckHealth() error
}

// Monitor watches subordinate check-ins and drives recovery. A stale
// subordinate gets one self-heal attempt per poll cycle; recovery
// failures are logged, not escalated.
type Monitor struct {
	hub        *Hub
	interval   time.Duration
	staleAfter time.Duration

	mu       sync.RWMutex
	checkins map[models.AgentRole]time.Time
	states   map[models.AgentRole]HealthState
	errors   map[models.AgentRole]string
}

// NewMonitor creates a monitor over the hub's subordinates.
func NewMonitor(hub *Hub, interval, staleAfter time.Duration) *Monitor {
	return &Monitor{
		hub:        hub,
		interval:   interval,
		staleAfter: staleAfter,
		checkins:   make(map[models.AgentRole]time.Time),
		states:     make(map[models.AgentRole]HealthState),
		errors:     make(map[models.AgentRole]string),
	}
}

// CheckIn records a heartbeat for the role.
func (m *Monitor) CheckIn(role models.AgentRole) {
	m.mu.Lock()
	m.checkins[role] = time.Now()
	m.states[role] = HealthHealthy
	delete(m.errors, role)
	m.mu.Unlock()
}

// Run polls until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Poll(ctx)
		}
	}
}

// Poll runs one health pass over every registered subordinate.
func (m *Monitor) Poll(ctx context.Context) {
	for _, role := range m.hub.Roles() {
		sub, ok := m.hub.Subordinate(role)
		if !ok {
			continue
		}
		m.pollOne(ctx, role, sub)
	}
}

func (m *Monitor) pollOne(ctx context.Context, role models.AgentRole, sub Subordinate) {
	if checker, ok := sub.(HealthChecker); ok {
		if err := checker.CheckHealth(); err != nil {
			log.Printf("[health] %s degraded: %v", role, err)
			m.mu.Lock()
			m.states[role] = HealthDegraded
			m.errors[role] = err.Error()
			m.mu.Unlock()
			return
		}
	}

	m.mu.RLock()
	last, seen := m.checkins[role]
	m.mu.RUnlock()

	if seen && time.Since(last) <= m.staleAfter {
		m.mu.Lock()
		m.states[role] = HealthHealthy
		delete(m.errors, role)
		m.mu.Unlock()
		return
	}

	log.Printf("[health] %s missed check-in window, attempting recovery", role)
	m.mu.Lock()
	m.states[role] = HealthUnresponsive
	m.mu.Unlock()

	if err := sub.SelfHeal(ctx); err != nil {
		log.Printf("[health] recovery for %s failed: %v", role, err)
		m.mu.Lock()
		m.errors[role] = err.Error()
		m.mu.Unlock()
		return
	}
	m.CheckIn(role)
}

// Status returns the per-role health states.
func (m *Monitor) Status() map[models.AgentRole]HealthState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[models.AgentRole]HealthState, len(m.states))
	for role, state := range m.states {
		out[role] = state
	}
	return out
}

// Overall reduces the per-role states: unresponsive wins over degraded,
// which wins over healthy.
func (m *Monitor) Overall() HealthState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	overall := HealthHealthy
	for _, state := range m.states {
		switch state {
		case HealthUnresponsive:
			return HealthUnresponsive
		case HealthDegraded:
			overall = HealthDegraded
		}
	}
	return overall
}

// Errors returns the recorded per-role error messages.
func (m *Monitor) Errors() map[models.AgentRole]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[models.AgentRole]string, len(m.errors))
	for role, msg := range m.errors {
		out[role] = msg
	}
	return out
}
