package gateway

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dkempe/inventory-backend/pkg/config"
	"github.com/dkempe/inventory-backend/pkg/logger"
	"github.com/dkempe/inventory-backend/pkg/tracing"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msgs...)
	return nil
}

func TestLogPublisherEmitsOutcomeEvent(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{}
	logg := logger.New(logger.Options{ServiceName: "gateway-test", Output: io.Discard})
	pub, err := NewLogPublisher(writer, "inventory-backend", logg)
	if err != nil {
		t.Fatalf("build publisher: %v", err)
	}

	pub.Publish(context.Background(), tracing.LogLevelInfo, "processed inventory.reserve message")

	writer.mu.Lock()
	defer writer.mu.Unlock()
	if len(writer.messages) != 1 {
		t.Fatalf("expected one published message, got %d", len(writer.messages))
	}

	var event tracing.LogEvent
	if err := json.Unmarshal(writer.messages[0].Value, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.Level != tracing.LogLevelInfo {
		t.Fatalf("expected INFO level, got %s", event.Level)
	}
	if event.Service != "inventory-backend" {
		t.Fatalf("expected service name, got %s", event.Service)
	}
	if event.Message != "processed inventory.reserve message" {
		t.Fatalf("unexpected message %q", event.Message)
	}
	if tracing.HeaderValue(writer.messages[0].Headers, headerService) != "inventory-backend" {
		t.Fatal("expected x-service header on published message")
	}
}

type fakeDeduper struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (f *fakeDeduper) DeliveryKey(topic string, partition int, offset int64) string {
	return topic + ":" + string(rune('0'+partition)) + ":" + string(rune('0'+offset))
}

func (f *fakeDeduper) MarkDelivery(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

func (f *fakeDeduper) ClearDelivery(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.seen, key)
	return nil
}

func TestConsumerSkipsDuplicateDelivery(t *testing.T) {
	t.Parallel()

	logg := logger.New(logger.Options{ServiceName: "gateway-test", Output: io.Discard})
	var handled int
	dispatcher := NewDispatcher()
	if err := dispatcher.Register("inventory.reserve", func(ctx context.Context, payload []byte) error {
		handled++
		return nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	reader := &fakeReader{}
	consumer, err := NewConsumer(reader, dispatcher, logg, config.ConsumerConfig{DedupeTTL: time.Minute},
		ConsumerOptions{Dedupe: &fakeDeduper{}})
	if err != nil {
		t.Fatalf("build consumer: %v", err)
	}

	msg := kafka.Message{Topic: "inventory.reserve", Partition: 0, Offset: 7, Value: []byte(`{}`)}
	consumer.process(context.Background(), msg)
	consumer.process(context.Background(), msg)

	if handled != 1 {
		t.Fatalf("expected handler invoked once, got %d", handled)
	}
	if reader.committedCount() != 2 {
		t.Fatalf("expected both deliveries committed, got %d", reader.committedCount())
	}
}
