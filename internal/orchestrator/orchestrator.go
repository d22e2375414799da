// Package orchestrator coordinates the studio: it analyzes a project
// request, decomposes it into per-agent assignments, validates them
// against the workflow rules, and drives the registered agents through
// the resulting task queue.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/agentix/studio/internal/agent"
	"github.com/agentix/studio/internal/analyzer"
	"github.com/agentix/studio/internal/decompose"
	"github.com/agentix/studio/internal/state"
	"github.com/agentix/studio/internal/workflow"
	"github.com/agentix/studio/pkg/models"
)

// Config holds the orchestrator's construction options.
type Config struct {
	// TaskTimeout bounds each agent execution. Zero disables the bound.
	TaskTimeout time.Duration
	// EventBuffer sizes the event channel. Defaults to 64.
	EventBuffer int
	// StateDB persists runs and executions. Nil disables persistence.
	StateDB *state.DB
	// Capabilities overrides the built-in role capability table,
	// e.g. with roles loaded from YAML files.
	Capabilities map[string]decompose.AgentCapability
}

// Orchestrator is the studio's CTO: it owns the request pipeline and
// the task queue, and dispatches assignments to registered agents one
// at a time in dependency order.
type Orchestrator struct {
	analyzer   *analyzer.Analyzer
	decomposer *decompose.Decomposer
	validator  *workflow.Validator
	registry   *AgentRegistry
	tracker    *ExecutionTracker
	emitter    *EventEmitter

	taskTimeout time.Duration
	stateDB     *state.DB

	mu      sync.Mutex
	runID   string
	request string
	aborted atomic.Bool
}

// NewOrchestrator creates an orchestrator from the given config.
func NewOrchestrator(cfg Config) *Orchestrator {
	bufferSize := cfg.EventBuffer
	if bufferSize <= 0 {
		bufferSize = 64
	}
	d := decompose.New()
	if cfg.Capabilities != nil {
		d = decompose.NewWithCapabilities(cfg.Capabilities)
	}
	return &Orchestrator{
		analyzer:    analyzer.New(),
		decomposer:  d,
		validator:   workflow.NewValidator(),
		registry:    NewAgentRegistry(),
		tracker:     NewExecutionTracker(),
		emitter:     NewEventEmitter(bufferSize),
		taskTimeout: cfg.TaskTimeout,
		stateDB:     cfg.StateDB,
	}
}

// RegisterAgent adds an agent under the given registry name.
func (o *Orchestrator) RegisterAgent(name string, a agent.Agent) error {
	return o.registry.Register(name, a)
}

// Events returns the orchestrator's event stream.
func (o *Orchestrator) Events() <-chan Event {
	return o.emitter.Events()
}

// ProcessRequest runs the request pipeline: analyze, decompose,
// validate, repair, and queue. It returns the final assignment set;
// ExecuteWorkflow drains the queue it builds.
func (o *Orchestrator) ProcessRequest(ctx context.Context, text string) (map[string]models.TaskAssignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	analysis, err := o.analyzer.Analyze(text)
	if err != nil {
		return nil, err
	}
	log.Printf("[orchestrator] analyzed request: features=%v urgency=%s complexity=%s",
		analysis.Features, analysis.Urgency, analysis.Complexity)

	assignments := o.decomposer.Decompose(analysis)

	if err := o.validator.Validate(assignments); err != nil {
		log.Printf("[orchestrator] workflow violation, attempting repair: %v", err)
		o.validator.Fix(assignments)
		if err := o.validator.Validate(assignments); err != nil {
			return nil, err
		}
	}

	ordered := workflow.ExecutionOrder(assignments)

	o.mu.Lock()
	o.runID = uuid.NewString()
	o.request = text
	o.aborted.Store(false)
	o.tracker.Reset()
	runID := o.runID
	o.mu.Unlock()

	if o.stateDB != nil {
		if err := o.stateDB.CreateRun(runID, text); err != nil {
			log.Printf("[orchestrator] failed to persist run: %v", err)
		}
	}

	o.emitter.Emit(Event{
		Type:    EventWorkflowStarted,
		Message: fmt.Sprintf("decomposed request into %d assignments", len(ordered)),
	})

	for _, a := range ordered {
		taskID := fmt.Sprintf("%s-%s", a.AgentRole, uuid.NewString()[:8])
		o.tracker.Enqueue(taskID, a.AgentRole, a)
		o.emitter.Emit(Event{
			Type:      EventTaskQueued,
			TaskID:    taskID,
			AgentName: a.AgentRole,
			Message:   a.Task,
		})
	}

	return assignments, nil
}

// ExecuteWorkflow drains the task queue built by ProcessRequest,
// dispatching each assignment to its registered agent in order. A
// missing agent or a failed execution is recorded and the workflow
// continues; Abort stops dispatch after the in-flight task finishes.
func (o *Orchestrator) ExecuteWorkflow(ctx context.Context) (*models.WorkflowResult, error) {
	result := &models.WorkflowResult{
		Results: make(map[string]*models.TaskResult),
		Errors:  make(map[string]string),
	}

	total := 0
	for {
		if o.aborted.Load() {
			o.emitter.Emit(Event{Type: EventWorkflowAborted})
			log.Printf("[orchestrator] workflow aborted with %d tasks still queued", o.tracker.QueueSize())
			return nil, context.Canceled
		}
		if err := ctx.Err(); err != nil {
			o.emitter.Emit(Event{Type: EventWorkflowAborted})
			return nil, err
		}

		exec := o.tracker.Dequeue()
		if exec == nil {
			break
		}
		total++
		o.executeOne(ctx, exec, result)
	}

	successful := total - len(result.Errors)
	result.Summary = models.NewWorkflowSummary(total, successful)
	result.Success = len(result.Errors) == 0

	if o.stateDB != nil {
		o.mu.Lock()
		runID := o.runID
		o.mu.Unlock()
		if runID != "" {
			if err := o.stateDB.CompleteRun(runID, result.Success, result.Summary); err != nil {
				log.Printf("[orchestrator] failed to persist run outcome: %v", err)
			}
		}
	}

	o.emitter.Emit(Event{
		Type:    EventWorkflowCompleted,
		Message: fmt.Sprintf("%d/%d tasks successful", successful, total),
	})
	return result, nil
}

// executeOne dispatches a single queued execution and records its outcome.
func (o *Orchestrator) executeOne(ctx context.Context, exec *models.TaskExecution, result *models.WorkflowResult) {
	worker, err := o.registry.Get(exec.AgentName)
	if err != nil {
		o.failExecution(exec, result, err)
		return
	}

	if err := o.tracker.Start(exec); err != nil {
		o.failExecution(exec, result, err)
		return
	}
	o.emitter.Emit(Event{
		Type:      EventTaskStarted,
		TaskID:    exec.TaskID,
		AgentName: exec.AgentName,
		Message:   exec.Assignment.Task,
	})
	log.Printf("[orchestrator] dispatching %s to %s", exec.TaskID, exec.AgentName)

	taskResult, err := agent.ExecuteWithTimeout(ctx, worker, exec.Assignment, o.taskTimeout)
	if err != nil {
		execErr := &AgentExecutionError{Agent: exec.AgentName, Err: err}
		if failErr := o.tracker.Fail(exec, execErr.Error()); failErr != nil {
			log.Printf("[orchestrator] %v", failErr)
		}
		result.Errors[exec.AgentName] = execErr.Error()
		o.emitter.Emit(Event{
			Type:      EventTaskFailed,
			TaskID:    exec.TaskID,
			AgentName: exec.AgentName,
			Error:     execErr,
		})
		o.persistExecution(exec)
		return
	}

	if err := o.tracker.Complete(exec, taskResult); err != nil {
		log.Printf("[orchestrator] %v", err)
	}
	result.Results[exec.AgentName] = taskResult
	o.emitter.Emit(Event{
		Type:      EventTaskCompleted,
		TaskID:    exec.TaskID,
		AgentName: exec.AgentName,
	})
	o.persistExecution(exec)
}

// failExecution records a failure for an execution that never started.
func (o *Orchestrator) failExecution(exec *models.TaskExecution, result *models.WorkflowResult, cause error) {
	// Walk the record through its lifecycle so terminal-state
	// invariants hold even for tasks that never reached an agent.
	if exec.Status == models.StatusPending {
		if err := o.tracker.Start(exec); err != nil {
			log.Printf("[orchestrator] %v", err)
		}
	}
	if err := o.tracker.Fail(exec, cause.Error()); err != nil {
		log.Printf("[orchestrator] %v", err)
	}
	result.Errors[exec.AgentName] = cause.Error()
	o.emitter.Emit(Event{
		Type:      EventTaskFailed,
		TaskID:    exec.TaskID,
		AgentName: exec.AgentName,
		Error:     cause,
	})
	o.persistExecution(exec)
}

func (o *Orchestrator) persistExecution(exec *models.TaskExecution) {
	if o.stateDB == nil {
		return
	}
	o.mu.Lock()
	runID := o.runID
	o.mu.Unlock()
	if runID == "" {
		return
	}
	if err := o.stateDB.RecordExecution(runID, exec); err != nil {
		log.Printf("[orchestrator] failed to persist execution %s: %v", exec.TaskID, err)
	}
}

// ExecuteAssignments validates, orders, and executes a caller-supplied
// assignment set, bypassing request analysis. It shares the queue and
// tracker with ProcessRequest, so the two must not be interleaved.
func (o *Orchestrator) ExecuteAssignments(ctx context.Context, assignments map[string]models.TaskAssignment) (*models.WorkflowResult, error) {
	if err := o.validator.Validate(assignments); err != nil {
		o.validator.Fix(assignments)
		if err := o.validator.Validate(assignments); err != nil {
			return nil, err
		}
	}

	o.mu.Lock()
	o.runID = ""
	o.aborted.Store(false)
	o.tracker.Reset()
	o.mu.Unlock()

	for _, a := range workflow.ExecutionOrder(assignments) {
		taskID := fmt.Sprintf("%s-%s", a.AgentRole, uuid.NewString()[:8])
		o.tracker.Enqueue(taskID, a.AgentRole, a)
	}
	return o.ExecuteWorkflow(ctx)
}

// ExecuteSingleTask dispatches one ad-hoc assignment to a named agent,
// outside any queued workflow.
func (o *Orchestrator) ExecuteSingleTask(ctx context.Context, agentName string, assignment models.TaskAssignment) (*models.TaskResult, error) {
	worker, err := o.registry.Get(agentName)
	if err != nil {
		return nil, err
	}
	result, err := agent.ExecuteWithTimeout(ctx, worker, assignment, o.taskTimeout)
	if err != nil {
		return nil, &AgentExecutionError{Agent: agentName, Err: err}
	}
	return result, nil
}

// Abort stops the current workflow. The in-flight task finishes; queued
// tasks are not dispatched and no aggregate result is produced.
func (o *Orchestrator) Abort() {
	o.aborted.Store(true)
}

// WorkflowStatus is a point-in-time snapshot of the orchestrator.
type WorkflowStatus struct {
	Active           bool     `json:"active"`
	Progress         string   `json:"progress"`
	Percentage       float64  `json:"percentage"`
	CurrentTasks     []string `json:"current_tasks"`
	RegisteredAgents []string `json:"registered_agents"`
	QueueSize        int      `json:"queue_size"`
	CompletedCount   int      `json:"completed_count"`
}

// GetWorkflowStatus returns a snapshot of the current workflow.
func (o *Orchestrator) GetWorkflowStatus() WorkflowStatus {
	done, total := o.tracker.Progress()
	status := WorkflowStatus{
		Active:           done < total,
		Progress:         fmt.Sprintf("%d/%d", done, total),
		CurrentTasks:     o.tracker.ActiveTasks(),
		RegisteredAgents: o.registry.Names(),
		QueueSize:        o.tracker.QueueSize(),
		CompletedCount:   done,
	}
	if total > 0 {
		status.Percentage = float64(done) / float64(total) * 100
	}
	return status
}

// GetAgentStatus returns the named agent's self-reported status.
func (o *Orchestrator) GetAgentStatus(name string) (string, error) {
	worker, err := o.registry.Get(name)
	if err != nil {
		return "", err
	}
	return worker.GetStatus(), nil
}

// Close releases the orchestrator's event channel.
func (o *Orchestrator) Close() {
	o.emitter.Close()
}
