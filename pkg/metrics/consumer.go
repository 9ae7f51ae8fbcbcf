package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ConsumerMetrics records per-topic outcomes of the event gateway.
type ConsumerMetrics struct {
	duration  *prometheus.HistogramVec
	processed *prometheus.CounterVec
	failed    *prometheus.CounterVec
	dropped   *prometheus.CounterVec
}

// NewConsumerMetrics registers the consumer metrics on the provided registerer.
func NewConsumerMetrics(reg prometheus.Registerer) *ConsumerMetrics {
	if reg == nil {
		return &ConsumerMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "consumer_message_duration_seconds",
		Help:    "Duration of message handling in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"topic"})
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "consumer_messages_processed",
		Help: "Messages handled and committed successfully.",
	}, []string{"topic"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "consumer_messages_failed",
		Help: "Messages left uncommitted for broker redelivery.",
	}, []string{"topic"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "consumer_messages_dropped",
		Help: "Malformed messages committed without processing.",
	}, []string{"topic"})
	reg.MustRegister(duration, processed, failed, dropped)
	return &ConsumerMetrics{
		duration:  duration,
		processed: processed,
		failed:    failed,
		dropped:   dropped,
	}
}

// ObserveDuration records handling time for the topic.
func (c *ConsumerMetrics) ObserveDuration(topic string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(topic)).Observe(duration.Seconds())
}

// IncProcessed increments the processed counter for the topic.
func (c *ConsumerMetrics) IncProcessed(topic string) {
	if c == nil || c.processed == nil {
		return
	}
	c.processed.WithLabelValues(normalizeLabel(topic)).Inc()
}

// IncFailed increments the failed counter for the topic.
func (c *ConsumerMetrics) IncFailed(topic string) {
	if c == nil || c.failed == nil {
		return
	}
	c.failed.WithLabelValues(normalizeLabel(topic)).Inc()
}

// IncDropped increments the dropped counter for the topic.
func (c *ConsumerMetrics) IncDropped(topic string) {
	if c == nil || c.dropped == nil {
		return
	}
	c.dropped.WithLabelValues(normalizeLabel(topic)).Inc()
}

func normalizeLabel(topic string) string {
	if topic == "" {
		return "unknown"
	}
	return topic
}
