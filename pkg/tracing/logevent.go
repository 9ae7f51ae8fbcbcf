package tracing

import (
	"time"

	"github.com/google/uuid"
)

// LogLevel classifies outbound log events.
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARNING"
	LogLevelError LogLevel = "ERROR"
)

// LogEvent is the structured outcome event published per processed message.
type LogEvent struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     LogLevel  `json:"level"`
	Message   string    `json:"message"`
	Service   string    `json:"service"`
	TraceID   string    `json:"traceId,omitempty"`
}

// NewLogEvent stamps id and timestamp on a log event.
func NewLogEvent(level LogLevel, message, service, traceID string) LogEvent {
	return LogEvent{
		ID:        uuid.New(),
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		Service:   service,
		TraceID:   traceID,
	}
}
