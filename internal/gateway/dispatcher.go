package gateway

import (
	"context"
	"fmt"

	"github.com/dkempe/inventory-backend/internal/inventory"
	"github.com/dkempe/inventory-backend/pkg/config"
	pkgerrors "github.com/dkempe/inventory-backend/pkg/errors"
)

// Dispatcher routes messages to the handler registered for their topic.
type Dispatcher struct {
	handlers map[string]Handler
}

// NewDispatcher builds an empty dispatch table.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[string]Handler{}}
}

// Register binds a topic to its handler. Re-registering a topic is a
// programming error and fails loudly.
func (d *Dispatcher) Register(topic string, handler Handler) error {
	if topic == "" {
		return fmt.Errorf("topic is required")
	}
	if handler == nil {
		return fmt.Errorf("handler is required for topic %s", topic)
	}
	if _, ok := d.handlers[topic]; ok {
		return fmt.Errorf("topic %s already registered", topic)
	}
	d.handlers[topic] = handler
	return nil
}

// Dispatch invokes the handler for the topic. An unregistered topic is
// treated as malformed so the message is dropped instead of redelivered.
func (d *Dispatcher) Dispatch(ctx context.Context, topic string, payload []byte) error {
	handler, ok := d.handlers[topic]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeMalformedEvent, "no handler registered for topic").
			WithDetails(map[string]any{"topic": topic})
	}
	return handler(ctx, payload)
}

// Topics lists the registered topic names.
func (d *Dispatcher) Topics() []string {
	topics := make([]string, 0, len(d.handlers))
	for topic := range d.handlers {
		topics = append(topics, topic)
	}
	return topics
}

// NewInventoryDispatcher wires the reserve and release topics to the engine.
func NewInventoryDispatcher(cfg config.KafkaConfig, engine inventory.Service) (*Dispatcher, error) {
	d := NewDispatcher()
	if err := d.Register(cfg.ReserveTopic, ReserveHandler(engine)); err != nil {
		return nil, err
	}
	if err := d.Register(cfg.ReleaseTopic, ReleaseHandler(engine)); err != nil {
		return nil, err
	}
	return d, nil
}
