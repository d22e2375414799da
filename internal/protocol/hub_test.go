package protocol

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/agentix/studio/pkg/models"
)

// stubSubordinate records handled messages and can be made to fail
// self-healing.
type stubSubordinate struct {
	role    models.AgentRole
	healErr error
	mu      sync.Mutex
	handled []models.AgentMessage
	healed  int
}

func (s *stubSubordinate) Role() models.AgentRole { return s.role }

func (s *stubSubordinate) HandleMessage(_ context.Context, msg models.AgentMessage) (*models.AgentMessage, error) {
	s.mu.Lock()
	s.handled = append(s.handled, msg)
	s.mu.Unlock()
	return nil, nil
}

func (s *stubSubordinate) SelfHeal(context.Context) error {
	s.mu.Lock()
	s.healed++
	s.mu.Unlock()
	return s.healErr
}

func (s *stubSubordinate) handledCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handled)
}

func TestTaskRequestDelegation(t *testing.T) {
	hub := NewHub(HubConfig{})
	hub.Register(&stubSubordinate{role: models.RoleCoding})

	msg := models.NewAgentMessage(models.RoleDevOps, models.RoleCTO, models.MessageTaskRequest, map[string]any{
		"type":        "backend",
		"description": "Implement REST API endpoints",
	})
	msg.TraceID = "trace-1"

	reply := hub.HandleMessage(context.Background(), msg)
	if reply == nil {
		t.Fatal("expected a reply")
	}
	if reply.Type != models.MessageTaskAssignment {
		t.Fatalf("reply type: got %s", reply.Type)
	}
	if reply.Receiver != models.RoleCoding {
		t.Errorf("receiver: got %s", reply.Receiver)
	}
	if reply.Content["description"] != "Implement REST API endpoints" {
		t.Errorf("description: got %v", reply.Content["description"])
	}
	if reply.TraceID != "trace-1" {
		t.Errorf("trace id not propagated: got %q", reply.TraceID)
	}
}

func TestTaskRequestWithoutType(t *testing.T) {
	hub := NewHub(HubConfig{})
	hub.Register(&stubSubordinate{role: models.RoleCoding})

	reply := hub.HandleMessage(context.Background(),
		models.NewAgentMessage(models.RoleDevOps, models.RoleCTO, models.MessageTaskRequest, map[string]any{
			"description": "something",
		}))
	if reply == nil || reply.Type != models.MessageError {
		t.Fatalf("expected an error envelope, got %+v", reply)
	}
}

func TestTaskRequestUnmappedType(t *testing.T) {
	hub := NewHub(HubConfig{})

	reply := hub.HandleMessage(context.Background(),
		models.NewAgentMessage(models.RoleDevOps, models.RoleCTO, models.MessageTaskRequest, map[string]any{
			"type": "database-tuning",
		}))
	if reply == nil || reply.Type != models.MessageError {
		t.Fatalf("expected an error envelope, got %+v", reply)
	}
	if msg, _ := reply.Content["error"].(string); !strings.Contains(msg, "database-tuning") {
		t.Errorf("error should name the task type, got %q", msg)
	}
}

func TestTaskRequestUnregisteredTarget(t *testing.T) {
	// "testing" is mapped but no tester subordinate is registered.
	hub := NewHub(HubConfig{})

	reply := hub.HandleMessage(context.Background(),
		models.NewAgentMessage(models.RoleDevOps, models.RoleCTO, models.MessageTaskRequest, map[string]any{
			"type": "testing",
		}))
	if reply == nil || reply.Type != models.MessageError {
		t.Fatalf("expected an error envelope, got %+v", reply)
	}
}

func TestStatusUpdateAcked(t *testing.T) {
	hub := NewHub(HubConfig{})

	reply := hub.HandleMessage(context.Background(),
		models.NewAgentMessage(models.RoleCoding, models.RoleCTO, models.MessageStatusUpdate, map[string]any{
			"status": "completed",
		}))
	if reply == nil || reply.Type != models.MessageAck {
		t.Fatalf("expected an ack, got %+v", reply)
	}
	if reply.Receiver != models.RoleCoding {
		t.Errorf("ack receiver: got %s", reply.Receiver)
	}
}

func TestErrorReportTriggersSelfHeal(t *testing.T) {
	sub := &stubSubordinate{role: models.RoleCoding}
	hub := NewHub(HubConfig{SelfHeal: true})
	hub.Register(sub)

	reply := hub.HandleMessage(context.Background(),
		models.NewAgentMessage(models.RoleCoding, models.RoleCTO, models.MessageErrorReport, map[string]any{
			"error": "generation failed",
		}))
	if reply == nil || reply.Type != models.MessageErrorResponse {
		t.Fatalf("expected an error_response, got %+v", reply)
	}
	if reply.Content["action"] != "self_heal_attempted" {
		t.Errorf("action: got %v", reply.Content["action"])
	}
	if sub.healed != 1 {
		t.Errorf("self-heal calls: got %d", sub.healed)
	}
}

func TestErrorReportSelfHealFailure(t *testing.T) {
	sub := &stubSubordinate{role: models.RoleCoding, healErr: errors.New("still broken")}
	hub := NewHub(HubConfig{SelfHeal: true})
	hub.Register(sub)

	reply := hub.HandleMessage(context.Background(),
		models.NewAgentMessage(models.RoleCoding, models.RoleCTO, models.MessageErrorReport, map[string]any{
			"error": "generation failed",
		}))
	if reply.Content["action"] != "self_heal_failed" {
		t.Errorf("action: got %v", reply.Content["action"])
	}
}

func TestErrorReportSelfHealDisabled(t *testing.T) {
	sub := &stubSubordinate{role: models.RoleCoding}
	hub := NewHub(HubConfig{})
	hub.Register(sub)

	reply := hub.HandleMessage(context.Background(),
		models.NewAgentMessage(models.RoleCoding, models.RoleCTO, models.MessageErrorReport, map[string]any{
			"error": "generation failed",
		}))
	if reply.Content["action"] != "logged" {
		t.Errorf("action: got %v", reply.Content["action"])
	}
	if sub.healed != 0 {
		t.Error("self-heal must not run when disabled")
	}
}

func TestUnsupportedMessageType(t *testing.T) {
	hub := NewHub(HubConfig{})
	reply := hub.HandleMessage(context.Background(),
		models.NewAgentMessage(models.RoleCoding, models.RoleCTO, models.MessageType("gossip"), nil))
	if reply == nil || reply.Type != models.MessageError {
		t.Fatalf("expected an error envelope, got %+v", reply)
	}
}

func TestBroadcastReachesAllSubordinates(t *testing.T) {
	coding := &stubSubordinate{role: models.RoleCoding}
	tester := &stubSubordinate{role: models.RoleTesting}
	hub := NewHub(HubConfig{})
	hub.Register(coding)
	hub.Register(tester)

	hub.Broadcast(context.Background(), models.MessageStatusUpdate, map[string]any{
		"status": "project kickoff",
	})

	if coding.handledCount() != 1 || tester.handledCount() != 1 {
		t.Errorf("broadcast counts: coding=%d testing=%d",
			coding.handledCount(), tester.handledCount())
	}
}

func TestSharedContext(t *testing.T) {
	hub := NewHub(HubConfig{})
	hub.SetShared("project_name", "studio-demo")

	v, ok := hub.GetShared("project_name")
	if !ok || v != "studio-demo" {
		t.Errorf("shared context: got %v, %v", v, ok)
	}
	if _, ok := hub.GetShared("missing"); ok {
		t.Error("expected a miss for an unset key")
	}
}

func TestHistoryRecordsTraffic(t *testing.T) {
	hub := NewHub(HubConfig{})
	hub.Register(&stubSubordinate{role: models.RoleCoding})

	hub.HandleMessage(context.Background(),
		models.NewAgentMessage(models.RoleDevOps, models.RoleCTO, models.MessageTaskRequest, map[string]any{
			"type": "backend", "description": "x",
		}))

	// Inbound request plus the synthesized assignment.
	if got := len(hub.History()); got != 2 {
		t.Errorf("history length: got %d", got)
	}
}

func TestDispatcherPerSenderOrder(t *testing.T) {
	hub := NewHub(HubConfig{})
	ctx := context.Background()
	d := NewDispatcher(ctx, hub)

	for i := 0; i < 5; i++ {
		d.Send(models.NewAgentMessage(models.RoleCoding, models.RoleCTO, models.MessageStatusUpdate, map[string]any{
			"status": i,
		}))
	}
	d.Close()

	var replies []models.AgentMessage
	for reply := range d.Replies() {
		replies = append(replies, reply)
	}
	if len(replies) != 5 {
		t.Fatalf("expected 5 acks, got %d", len(replies))
	}

	// Acks come back in send order for a single sender.
	history := hub.History()
	for i, msg := range history {
		if msg.Content["status"] != i {
			t.Errorf("message %d processed out of order: %v", i, msg.Content["status"])
		}
	}
}

func TestDispatcherConcurrentSendClose(t *testing.T) {
	senders := []models.AgentRole{
		models.RoleCoding, models.RoleFrontend, models.RoleTesting,
		models.RoleSecurity, models.RoleDocumentation, models.RoleDevOps,
	}

	// Sends racing Close must either enqueue or drop; never panic.
	for i := 0; i < 50; i++ {
		hub := NewHub(HubConfig{})
		d := NewDispatcher(context.Background(), hub)

		drained := make(chan struct{})
		go func() {
			for range d.Replies() {
			}
			close(drained)
		}()

		var wg sync.WaitGroup
		for _, sender := range senders {
			wg.Add(1)
			go func(sender models.AgentRole) {
				defer wg.Done()
				for j := 0; j < 4; j++ {
					d.Send(models.NewAgentMessage(sender, models.RoleCTO, models.MessageStatusUpdate, map[string]any{
						"status": j,
					}))
				}
			}(sender)
		}

		d.Close()
		wg.Wait()
		<-drained

		d.Send(models.NewAgentMessage(models.RoleCoding, models.RoleCTO, models.MessageStatusUpdate, nil))
	}
}
