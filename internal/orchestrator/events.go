package orchestrator

import (
	"log"
	"sync/atomic"
	"time"
)

// EventType is the kind of orchestrator event.
type EventType string

const (
	// EventWorkflowStarted indicates a request was accepted and decomposed.
	EventWorkflowStarted EventType = "workflow_started"
	// EventTaskQueued indicates an assignment was queued for dispatch.
	EventTaskQueued EventType = "task_queued"
	// EventTaskStarted indicates an agent began executing an assignment.
	EventTaskStarted EventType = "task_started"
	// EventTaskCompleted indicates an agent finished successfully.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskFailed indicates an agent failed or timed out.
	EventTaskFailed EventType = "task_failed"
	// EventWorkflowCompleted indicates all queued assignments finished.
	EventWorkflowCompleted EventType = "workflow_completed"
	// EventWorkflowAborted indicates the workflow was cancelled before
	// its queue drained.
	EventWorkflowAborted EventType = "workflow_aborted"
)

// Event is one progress notification emitted during orchestration.
// The CLI consumes these to render live status.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// TaskID is the related execution's ID, if applicable.
	TaskID string
	// AgentName is the related agent, if applicable.
	AgentName string
	// Message provides additional context.
	Message string
	// Error holds failure details for task_failed events.
	Error error
	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// EventEmitter is a bounded, drop-on-overflow event channel. A slow or
// absent subscriber never blocks the workflow.
type EventEmitter struct {
	events  chan Event
	dropped atomic.Uint64
}

// NewEventEmitter creates an emitter with the given buffer size.
func NewEventEmitter(bufferSize int) *EventEmitter {
	return &EventEmitter{events: make(chan Event, bufferSize)}
}

// Emit sends an event without blocking. When the buffer is full it
// waits briefly for the subscriber to drain, then drops the event.
func (e *EventEmitter) Emit(event Event) {
	event.Timestamp = time.Now()

	select {
	case e.events <- event:
		return
	default:
	}

	select {
	case e.events <- event:
	case <-time.After(100 * time.Millisecond):
		count := e.dropped.Add(1)
		if count%10 == 1 {
			log.Printf("[orchestrator] WARNING: event channel full, dropped event (total dropped: %d): type=%s", count, event.Type)
		}
	}
}

// Events returns the read side of the event channel.
func (e *EventEmitter) Events() <-chan Event {
	return e.events
}

// Dropped returns how many events were discarded due to a full buffer.
func (e *EventEmitter) Dropped() uint64 {
	return e.dropped.Load()
}

// Close closes the event channel. Call only after the last Emit.
func (e *EventEmitter) Close() {
	close(e.events)
}
