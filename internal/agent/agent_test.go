package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agentix/studio/pkg/models"
)

// stubGenerator returns a fixed result, or an error result when fail
// is set. It records the last prompt for assertions.
type stubGenerator struct {
	fail       bool
	lastPrompt string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) GenerateResult {
	s.lastPrompt = prompt
	if s.fail {
		return GenerateResult{Err: errors.New("api unavailable"), TokensUsed: 12}
	}
	return GenerateResult{Text: "generated code", Model: "claude-sonnet-4", TokensUsed: 120}
}

func backendAssignment() models.TaskAssignment {
	return models.TaskAssignment{
		AgentRole: "backend_coder",
		RoleTitle: "Senior Backend Developer",
		Action:    models.ActionWriteCode,
		Task:      "Implement user authentication and authorization system",
	}
}

func TestBackendCoderExecutesWithGenerator(t *testing.T) {
	gen := &stubGenerator{}
	coder := NewBackendCoder(gen)

	result, err := coder.ExecuteTask(context.Background(), backendAssignment())
	if err != nil {
		t.Fatalf("ExecuteTask: %v", err)
	}
	if result.Output != "generated code" {
		t.Errorf("output: got %q", result.Output)
	}
	if result.ModelUsed != "claude-sonnet-4" {
		t.Errorf("model: got %q", result.ModelUsed)
	}
	if result.TokensUsed != 120 {
		t.Errorf("tokens: got %d", result.TokensUsed)
	}
	if _, ok := result.Files["backend/main.go"]; !ok {
		t.Error("expected backend/main.go in result files")
	}
	if !strings.Contains(gen.lastPrompt, "Implement user authentication") {
		t.Errorf("prompt does not carry the task: %q", gen.lastPrompt)
	}
}

func TestBackendCoderFallsBackOnGenerationFailure(t *testing.T) {
	coder := NewBackendCoder(&stubGenerator{fail: true})

	result, err := coder.ExecuteTask(context.Background(), backendAssignment())
	if err != nil {
		t.Fatalf("fallback should not error: %v", err)
	}
	if result.ModelUsed != templateModel {
		t.Errorf("model: got %q, want %q", result.ModelUsed, templateModel)
	}
	if result.TokensUsed != 12 {
		t.Errorf("tokens spent before failure should be kept, got %d", result.TokensUsed)
	}
	if len(result.Files) == 0 {
		t.Error("template fallback produced no files")
	}
}

func TestNilGeneratorUsesTemplate(t *testing.T) {
	tester := NewTester(nil)
	result, err := tester.ExecuteTask(context.Background(), models.TaskAssignment{
		AgentRole: "tester",
		RoleTitle: "Software Tester",
		Action:    models.ActionTestCode,
		Task:      "Perform basic unit tests and functionality verification on all implemented components",
	})
	if err != nil {
		t.Fatalf("ExecuteTask: %v", err)
	}
	if result.ModelUsed != templateModel {
		t.Errorf("model: got %q", result.ModelUsed)
	}
}

func TestExecuteTaskRejectsInvalidAssignment(t *testing.T) {
	coder := NewFrontendCoder(&stubGenerator{})
	_, err := coder.ExecuteTask(context.Background(), models.TaskAssignment{
		AgentRole: "frontend_coder",
		Action:    models.ActionWriteCode,
		Task:      "",
	})
	if err == nil {
		t.Fatal("expected an error for an empty task")
	}
}

func TestStatusTransitions(t *testing.T) {
	coder := NewBackendCoder(nil)
	if got := coder.GetStatus(); got != "idle" {
		t.Errorf("initial status: got %q", got)
	}
	if _, err := coder.ExecuteTask(context.Background(), backendAssignment()); err != nil {
		t.Fatalf("ExecuteTask: %v", err)
	}
	if got := coder.GetStatus(); got != "idle" {
		t.Errorf("status after completion: got %q", got)
	}
}

func TestGetCapabilitiesReturnsCopy(t *testing.T) {
	coder := NewBackendCoder(nil)
	caps := coder.GetCapabilities()
	if len(caps) == 0 {
		t.Fatal("expected capabilities")
	}
	caps[0] = "mutated"
	if coder.GetCapabilities()[0] == "mutated" {
		t.Error("GetCapabilities exposed internal state")
	}
}

// slowAgent blocks until its context is cancelled.
type slowAgent struct{ worker }

func (s *slowAgent) ExecuteTask(ctx context.Context, _ models.TaskAssignment) (*models.TaskResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestExecuteWithTimeout(t *testing.T) {
	slow := &slowAgent{worker: newWorker("slow", "Slow Agent", nil, nil)}

	_, err := ExecuteWithTimeout(context.Background(), slow, backendAssignment(), 10*time.Millisecond)
	if !errors.Is(err, ErrExecuteTimeout) {
		t.Errorf("expected ErrExecuteTimeout, got %v", err)
	}
}

func TestExecuteWithTimeoutDisabled(t *testing.T) {
	coder := NewBackendCoder(nil)
	result, err := ExecuteWithTimeout(context.Background(), coder, backendAssignment(), 0)
	if err != nil {
		t.Fatalf("ExecuteWithTimeout: %v", err)
	}
	if result == nil {
		t.Fatal("expected a result")
	}
}
