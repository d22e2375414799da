package protocol

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agentix/studio/internal/agent"
	"github.com/agentix/studio/pkg/models"
)

func TestMonitorHealthyAfterCheckIn(t *testing.T) {
	hub := NewHub(HubConfig{})
	hub.Register(&stubSubordinate{role: models.RoleCoding})
	m := NewMonitor(hub, time.Minute, time.Minute)

	m.CheckIn(models.RoleCoding)
	m.Poll(context.Background())

	if got := m.Status()[models.RoleCoding]; got != HealthHealthy {
		t.Errorf("state: got %s", got)
	}
	if got := m.Overall(); got != HealthHealthy {
		t.Errorf("overall: got %s", got)
	}
}

func TestMonitorRecoversStaleSubordinate(t *testing.T) {
	sub := &stubSubordinate{role: models.RoleCoding}
	hub := NewHub(HubConfig{})
	hub.Register(sub)
	m := NewMonitor(hub, time.Minute, time.Minute)

	// Never checked in: stale, so the monitor attempts recovery and,
	// since healing succeeds, marks the role healthy again.
	m.Poll(context.Background())

	if sub.healed != 1 {
		t.Errorf("self-heal calls: got %d", sub.healed)
	}
	if got := m.Status()[models.RoleCoding]; got != HealthHealthy {
		t.Errorf("state after recovery: got %s", got)
	}
}

func TestMonitorRecoveryFailureIsNotEscalated(t *testing.T) {
	sub := &stubSubordinate{role: models.RoleCoding, healErr: errors.New("dead")}
	hub := NewHub(HubConfig{})
	hub.Register(sub)
	m := NewMonitor(hub, time.Minute, time.Minute)

	m.Poll(context.Background())

	if got := m.Status()[models.RoleCoding]; got != HealthUnresponsive {
		t.Errorf("state: got %s", got)
	}
	if got := m.Overall(); got != HealthUnresponsive {
		t.Errorf("overall: got %s", got)
	}
	if _, ok := m.Errors()[models.RoleCoding]; !ok {
		t.Error("expected a recorded recovery error")
	}
}

func TestMonitorDegradedOnPollError(t *testing.T) {
	// A worker whose last task failed reports unhealthy on poll.
	failing := NewWorker(models.RoleCoding, "Coder", models.ActionWriteCode, nil)
	failing.lastError = "generation exploded"
	hub := NewHub(HubConfig{})
	hub.Register(failing)
	m := NewMonitor(hub, time.Minute, time.Minute)

	m.Poll(context.Background())

	if got := m.Status()[models.RoleCoding]; got != HealthDegraded {
		t.Errorf("state: got %s", got)
	}
	if got := m.Overall(); got != HealthDegraded {
		t.Errorf("overall: got %s", got)
	}
}

func TestWorkerExecutesAssignment(t *testing.T) {
	w := NewWorker(models.RoleTesting, "Software Tester", models.ActionTestCode, agent.NewTester(nil))

	msg := models.NewAgentMessage(models.RoleCTO, models.RoleTesting, models.MessageTaskAssignment, map[string]any{
		"description": "Perform basic unit tests and functionality verification on all implemented components",
	})
	msg.TraceID = "trace-9"

	reply, err := w.HandleMessage(context.Background(), msg)
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply == nil || reply.Type != models.MessageStatusUpdate {
		t.Fatalf("expected a status update, got %+v", reply)
	}
	if reply.Content["status"] != "completed" {
		t.Errorf("status: got %v", reply.Content["status"])
	}
	if reply.TraceID != "trace-9" {
		t.Errorf("trace id: got %q", reply.TraceID)
	}
	if err := w.CheckHealth(); err != nil {
		t.Errorf("healthy worker reported: %v", err)
	}
}

func TestWorkerReportsFailureAndHeals(t *testing.T) {
	w := NewWorker(models.RoleCoding, "Coder", models.ActionWriteCode, agent.NewBackendCoder(nil))

	// An assignment with an empty description fails validation.
	reply, err := w.HandleMessage(context.Background(),
		models.NewAgentMessage(models.RoleCTO, models.RoleCoding, models.MessageTaskAssignment, map[string]any{}))
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply == nil || reply.Type != models.MessageErrorReport {
		t.Fatalf("expected an error report, got %+v", reply)
	}
	if err := w.CheckHealth(); err == nil {
		t.Error("expected an unhealthy worker after a failed task")
	}

	if err := w.SelfHeal(context.Background()); err != nil {
		t.Fatalf("SelfHeal: %v", err)
	}
	if err := w.CheckHealth(); err != nil {
		t.Errorf("worker still unhealthy after self-heal: %v", err)
	}
}

func TestWorkerIgnoresOtherMessageTypes(t *testing.T) {
	w := NewWorker(models.RoleCoding, "Coder", models.ActionWriteCode, agent.NewBackendCoder(nil))
	reply, err := w.HandleMessage(context.Background(),
		models.NewAgentMessage(models.RoleCTO, models.RoleCoding, models.MessageAck, nil))
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply != nil {
		t.Errorf("expected no reply, got %+v", reply)
	}
}
