package gateway

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"

	"github.com/dkempe/inventory-backend/pkg/logger"
	"github.com/dkempe/inventory-backend/pkg/tracing"
)

const (
	headerService   = "x-service"
	headerEventName = "x-event-name"
	logEventName    = "log-event"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// LogPublisher emits one structured outcome event per processed message onto
// the log topic, with the trace context injected into the message headers.
type LogPublisher struct {
	writer  messageWriter
	service string
	logg    *logger.Logger
}

// NewLogPublisher builds a publisher writing to the provided topic writer.
func NewLogPublisher(writer messageWriter, service string, logg *logger.Logger) (*LogPublisher, error) {
	if writer == nil {
		return nil, errors.New("log writer is required")
	}
	if service == "" {
		return nil, errors.New("service name is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &LogPublisher{writer: writer, service: service, logg: logg}, nil
}

// Publish sends a log event carrying the current trace correlation id. A
// publish failure is logged and swallowed; outcome events are best-effort and
// never block or fail message processing.
func (p *LogPublisher) Publish(ctx context.Context, level tracing.LogLevel, message string) {
	event := tracing.NewLogEvent(level, message, p.service, tracing.TraceID(ctx))

	body, err := json.Marshal(event)
	if err != nil {
		p.logg.Error(ctx, "marshal log event", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.ID.String()),
		Value: body,
		Headers: tracing.InjectKafkaHeaders(ctx, []kafka.Header{
			{Key: headerService, Value: []byte(p.service)},
			{Key: headerEventName, Value: []byte(logEventName)},
		}),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logg.Error(ctx, "publish log event", err)
	}
}
