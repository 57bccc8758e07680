package mqtt

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/AaronLay10/roommap/internal/events"
)

// Subscriber is the part of Client the trigger needs.
type Subscriber interface {
	Subscribe(topic string, handler paho.MessageHandler) error
}

// Regenerator is implemented by the orchestrator.
type Regenerator interface {
	Regenerate(ctx context.Context) error
}

// RegenerateCommand is the optional JSON payload of a regenerate message.
type RegenerateCommand struct {
	RequestedBy string `json:"requested_by"`
}

// RegenerateTrigger turns messages on the regenerate topic into Regenerate calls.
type RegenerateTrigger struct {
	mu         sync.Mutex
	sub        Subscriber
	target     Regenerator
	topics     Topics
	timeout    time.Duration
	subscribed bool
}

// NewRegenerateTrigger creates a trigger for topics.Regenerate().
func NewRegenerateTrigger(sub Subscriber, target Regenerator, topics Topics) *RegenerateTrigger {
	return &RegenerateTrigger{
		sub:     sub,
		target:  target,
		topics:  topics,
		timeout: 30 * time.Second,
	}
}

// Subscribe registers the handler. Calling it again is a no-op until
// ClearSubscription is called, e.g. after a reconnect.
func (t *RegenerateTrigger) Subscribe() error {
	t.mu.Lock()
	if t.subscribed {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	if err := t.sub.Subscribe(t.topics.Regenerate(), t.handle); err != nil {
		return err
	}

	t.mu.Lock()
	t.subscribed = true
	t.mu.Unlock()
	return nil
}

// ClearSubscription forgets the subscription so Subscribe runs again.
func (t *RegenerateTrigger) ClearSubscription() {
	t.mu.Lock()
	t.subscribed = false
	t.mu.Unlock()
}

func (t *RegenerateTrigger) handle(_ paho.Client, msg paho.Message) {
	var cmd RegenerateCommand
	if len(msg.Payload()) > 0 {
		if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
			cmd.RequestedBy = string(msg.Payload())
		}
	}

	events.Emit("info", "operator.regenerate", "", map[string]interface{}{
		"source":       "mqtt",
		"topic":        msg.Topic(),
		"requested_by": cmd.RequestedBy,
	})

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	if err := t.target.Regenerate(ctx); err != nil {
		events.Emit("error", "mqtt.error", "regenerate failed", map[string]interface{}{
			"topic": msg.Topic(),
			"error": err.Error(),
		})
	}
}
