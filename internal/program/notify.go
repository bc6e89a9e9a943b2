package program

import (
	"context"
	"encoding/json"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	"github.com/proyectospoon/menuprog/internal/menu"
	"github.com/proyectospoon/menuprog/pkg/event"
)

// Notifier delivers fire-and-forget user notifications. The engine calls it
// but never depends on delivery succeeding.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// NoopNotifier discards every notification.
type NoopNotifier struct{}

// NewNoopNotifier creates a no-op notifier.
func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (n *NoopNotifier) Success(msg string) {}
func (n *NoopNotifier) Error(msg string)   {}
func (n *NoopNotifier) Info(msg string)    {}

// EventNotifier publishes notifications as NotificationEvents. Publish
// failures are logged and swallowed.
type EventNotifier struct {
	publisher events.Publisher
	scopeID   menu.ScopeID
	logger    apt.Logger
}

// NewEventNotifier creates a notifier that publishes to the notifications
// topic.
func NewEventNotifier(publisher events.Publisher, scopeID menu.ScopeID, logger apt.Logger) *EventNotifier {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &EventNotifier{
		publisher: publisher,
		scopeID:   scopeID,
		logger:    logger,
	}
}

func (n *EventNotifier) Success(msg string) { n.publish("success", msg) }
func (n *EventNotifier) Error(msg string)   { n.publish("error", msg) }
func (n *EventNotifier) Info(msg string)    { n.publish("info", msg) }

func (n *EventNotifier) publish(level, msg string) {
	if n.publisher == nil {
		return
	}

	evt := event.NotificationEvent{
		Level:      level,
		Message:    msg,
		OccurredAt: time.Now(),
		ScopeID:    n.scopeID.String(),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		n.logger.Error("cannot marshal notification event", "error", err)
		return
	}

	if err := n.publisher.Publish(context.Background(), event.NotificationsTopic, data); err != nil {
		n.logger.Debug("notification publish failed", "error", err, "level", level)
	}
}
