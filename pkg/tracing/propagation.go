package tracing

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Legacy correlation headers kept alongside the W3C traceparent so consumers
// that predate the otel rollout can still correlate messages.
const (
	HeaderTraceID = "x-trace-id"
	HeaderSpanID  = "x-span-id"
)

// InjectKafkaHeaders appends the current trace context to the given headers.
func InjectKafkaHeaders(ctx context.Context, headers []kafka.Header) []kafka.Header {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	for k, v := range carrier {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	if traceID := TraceID(ctx); traceID != "" {
		headers = append(headers, kafka.Header{Key: HeaderTraceID, Value: []byte(traceID)})
	}
	if spanID := SpanID(ctx); spanID != "" {
		headers = append(headers, kafka.Header{Key: HeaderSpanID, Value: []byte(spanID)})
	}
	return headers
}

// ExtractKafkaHeaders returns a context carrying the trace state found in the
// message headers. When no headers are present the returned context starts a
// fresh correlation scope.
func ExtractKafkaHeaders(ctx context.Context, headers []kafka.Header) context.Context {
	carrier := propagation.MapCarrier{}
	for _, h := range headers {
		carrier[h.Key] = string(h.Value)
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

// HeaderValue returns the value of the named header, or "".
func HeaderValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
