package protocol

import (
	"context"
	"sync"

	"github.com/agentix/studio/pkg/models"
)

// Dispatcher runs the hub asynchronously. Messages from the same sender
// are processed in arrival order; messages from different senders may
// interleave. Replies are delivered on a single channel.
type Dispatcher struct {
	hub     *Hub
	ctx     context.Context
	replies chan models.AgentMessage

	mu      sync.Mutex
	queues  map[models.AgentRole]chan models.AgentMessage
	drains  sync.WaitGroup
	sending sync.WaitGroup
	closed  bool
}

// queueDepth bounds each sender's in-flight message queue.
const queueDepth = 32

// NewDispatcher creates a dispatcher over the hub. The context bounds
// all message handling started through Send.
func NewDispatcher(ctx context.Context, hub *Hub) *Dispatcher {
	return &Dispatcher{
		hub:     hub,
		ctx:     ctx,
		replies: make(chan models.AgentMessage, queueDepth),
		queues:  make(map[models.AgentRole]chan models.AgentMessage),
	}
}

// Send enqueues an envelope for processing. It blocks only while the
// sender's queue is full; a cancelled dispatcher context unblocks it
// and drops the message. Send after Close is a no-op.
func (d *Dispatcher) Send(msg models.AgentMessage) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	// Registered before the mutex is released so Close waits for this
	// send to finish before it closes the queue.
	d.sending.Add(1)
	queue, ok := d.queues[msg.Sender]
	if !ok {
		queue = make(chan models.AgentMessage, queueDepth)
		d.queues[msg.Sender] = queue
		d.drains.Add(1)
		go d.drain(queue)
	}
	d.mu.Unlock()
	defer d.sending.Done()

	select {
	case queue <- msg:
	case <-d.ctx.Done():
	}
}

// drain processes one sender's messages in order.
func (d *Dispatcher) drain(queue <-chan models.AgentMessage) {
	defer d.drains.Done()
	for msg := range queue {
		if reply := d.hub.HandleMessage(d.ctx, msg); reply != nil {
			select {
			case d.replies <- *reply:
			case <-d.ctx.Done():
				return
			}
		}
	}
}

// Replies returns the channel of hub replies.
func (d *Dispatcher) Replies() <-chan models.AgentMessage {
	return d.replies
}

// Close stops accepting messages, waits for in-flight handling to
// finish, and closes the replies channel.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	// No new send can start once closed is set; wait out the in-flight
	// ones before closing their queues.
	d.sending.Wait()

	d.mu.Lock()
	for _, queue := range d.queues {
		close(queue)
	}
	d.mu.Unlock()

	d.drains.Wait()
	close(d.replies)
}
