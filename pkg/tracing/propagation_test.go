package tracing

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestInjectExtractRoundTrip(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	if err != nil {
		t.Fatalf("trace id: %v", err)
	}
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	if err != nil {
		t.Fatalf("span id: %v", err)
	}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	headers := InjectKafkaHeaders(ctx, nil)
	if HeaderValue(headers, "traceparent") == "" {
		t.Fatalf("expected traceparent header, got %v", headers)
	}
	if got := HeaderValue(headers, HeaderTraceID); got != traceID.String() {
		t.Fatalf("expected %s header %s, got %s", HeaderTraceID, traceID, got)
	}

	extracted := ExtractKafkaHeaders(context.Background(), headers)
	if got := TraceID(extracted); got != traceID.String() {
		t.Fatalf("expected extracted trace id %s, got %s", traceID, got)
	}
}

func TestExtractWithoutHeadersYieldsEmptyTrace(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	ctx := ExtractKafkaHeaders(context.Background(), nil)
	if got := TraceID(ctx); got != "" {
		t.Fatalf("expected no trace id, got %s", got)
	}
}

func TestHeaderValueMissing(t *testing.T) {
	headers := []kafka.Header{{Key: "x-service", Value: []byte("inventory")}}
	if got := HeaderValue(headers, "missing"); got != "" {
		t.Fatalf("expected empty value, got %q", got)
	}
}
