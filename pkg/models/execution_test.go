package models

import (
	"testing"
	"time"
)

func TestExecutionStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to ExecutionStatus
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusFailed, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusFailed, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusFailed, false},
		{StatusFailed, StatusInProgress, false},
		{StatusFailed, StatusCompleted, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestExecutionStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() || StatusInProgress.Terminal() {
		t.Error("pending and in_progress must not be terminal")
	}
	if !StatusCompleted.Terminal() || !StatusFailed.Terminal() {
		t.Error("completed and failed must be terminal")
	}
}

func TestTaskExecutionDuration(t *testing.T) {
	exec := &TaskExecution{TaskID: "t1", AgentName: "tester", Status: StatusInProgress}
	if exec.Duration() != 0 {
		t.Error("expected zero duration before completion")
	}

	start := time.Now()
	end := start.Add(3 * time.Second)
	exec.StartTime = &start
	exec.EndTime = &end
	if exec.Duration() != 3*time.Second {
		t.Errorf("expected 3s duration, got %v", exec.Duration())
	}
}
