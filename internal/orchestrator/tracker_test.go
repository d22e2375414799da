package orchestrator

import (
	"testing"

	"github.com/agentix/studio/pkg/models"
)

func queuedExecution(t *testing.T, tr *ExecutionTracker) *models.TaskExecution {
	t.Helper()
	return tr.Enqueue("task-1", "backend_coder", models.TaskAssignment{
		AgentRole: "backend_coder",
		Action:    models.ActionWriteCode,
		Task:      "Implement REST API endpoints and business logic",
	})
}

func TestTrackerLifecycle(t *testing.T) {
	tr := NewExecutionTracker()
	exec := queuedExecution(t, tr)

	if exec.Status != models.StatusPending {
		t.Fatalf("initial status: got %s", exec.Status)
	}
	if got := tr.Dequeue(); got != exec {
		t.Fatal("Dequeue returned a different execution")
	}
	if err := tr.Start(exec); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if exec.StartTime == nil {
		t.Error("Start did not stamp a start time")
	}
	if got := tr.ActiveTasks(); len(got) != 1 {
		t.Errorf("active tasks: got %v", got)
	}
	if err := tr.Complete(exec, &models.TaskResult{Output: "done"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if exec.EndTime == nil {
		t.Error("Complete did not stamp an end time")
	}
	if got := len(tr.Completed()); got != 1 {
		t.Errorf("completed: got %d", got)
	}
	if got := len(tr.ActiveTasks()); got != 0 {
		t.Errorf("active after completion: got %d", got)
	}
}

func TestTrackerRejectsIllegalTransitions(t *testing.T) {
	tr := NewExecutionTracker()
	exec := queuedExecution(t, tr)
	tr.Dequeue()

	// Completing a pending execution skips in_progress.
	if err := tr.Complete(exec, nil); err == nil {
		t.Error("expected an error completing a pending execution")
	}

	if err := tr.Start(exec); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := tr.Fail(exec, "boom"); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	// Terminal states are final.
	if err := tr.Start(exec); err == nil {
		t.Error("expected an error restarting a failed execution")
	}
	if err := tr.Complete(exec, nil); err == nil {
		t.Error("expected an error completing a failed execution")
	}
}

func TestTrackerProgress(t *testing.T) {
	tr := NewExecutionTracker()
	exec := queuedExecution(t, tr)
	tr.Enqueue("task-2", "tester", models.TaskAssignment{
		AgentRole: "tester",
		Action:    models.ActionTestCode,
		Task:      "Perform basic unit tests and functionality verification on all implemented components",
	})

	if done, total := tr.Progress(); done != 0 || total != 2 {
		t.Errorf("progress: got %d/%d", done, total)
	}

	tr.Dequeue()
	if err := tr.Start(exec); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if done, total := tr.Progress(); done != 0 || total != 2 {
		t.Errorf("progress mid-flight: got %d/%d", done, total)
	}
	if err := tr.Complete(exec, nil); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done, total := tr.Progress(); done != 1 || total != 2 {
		t.Errorf("progress after completion: got %d/%d", done, total)
	}

	tr.Reset()
	if done, total := tr.Progress(); done != 0 || total != 0 {
		t.Errorf("progress after reset: got %d/%d", done, total)
	}
}
