package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dkempe/inventory-backend/pkg/config"
	pkgerrors "github.com/dkempe/inventory-backend/pkg/errors"
	"github.com/dkempe/inventory-backend/pkg/logger"
	"github.com/dkempe/inventory-backend/pkg/metrics"
	"github.com/dkempe/inventory-backend/pkg/tracing"
)

type fetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type deduper interface {
	DeliveryKey(topic string, partition int, offset int64) string
	MarkDelivery(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ClearDelivery(ctx context.Context, key string) error
}

// Consumer pulls messages from one topic reader and applies them through the
// dispatch table under at-least-once semantics: an offset is committed only
// after the handler outcome is final. Malformed messages are committed
// without processing so the broker never redelivers poison. Retryable
// failures leave the offset uncommitted and the broker redelivers.
type Consumer struct {
	reader     fetcher
	dispatcher *Dispatcher
	dedupe     deduper
	publisher  *LogPublisher
	metrics    *metrics.ConsumerMetrics
	logg       *logger.Logger
	cfg        config.ConsumerConfig
}

// ConsumerOptions carries the optional collaborators of a consumer.
type ConsumerOptions struct {
	Dedupe    deduper
	Publisher *LogPublisher
	Metrics   *metrics.ConsumerMetrics
}

// NewConsumer builds a consumer for the provided reader and dispatch table.
func NewConsumer(reader fetcher, dispatcher *Dispatcher, logg *logger.Logger, cfg config.ConsumerConfig, opts ConsumerOptions) (*Consumer, error) {
	if reader == nil {
		return nil, errors.New("reader is required")
	}
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		reader:     reader,
		dispatcher: dispatcher,
		dedupe:     opts.Dedupe,
		publisher:  opts.Publisher,
		metrics:    opts.Metrics,
		logg:       logg,
		cfg:        cfg,
	}, nil
}

// Run processes messages until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			c.logg.Error(ctx, "fetch message", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.cfg.FetchBackoff):
			}
			continue
		}

		c.process(ctx, msg)
	}
}

// Close releases the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	started := time.Now()

	msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
	msgCtx = c.logg.WithTopic(msgCtx, msg.Topic)
	if traceID := tracing.TraceID(msgCtx); traceID != "" {
		msgCtx = c.logg.WithTraceID(msgCtx, traceID)
	} else if legacy := tracing.HeaderValue(msg.Headers, tracing.HeaderTraceID); legacy != "" {
		msgCtx = c.logg.WithTraceID(msgCtx, legacy)
	}

	var dedupeKey string
	if c.dedupe != nil {
		dedupeKey = c.dedupe.DeliveryKey(msg.Topic, msg.Partition, msg.Offset)
		first, err := c.dedupe.MarkDelivery(msgCtx, dedupeKey, c.cfg.DedupeTTL)
		if err != nil {
			// Dedupe is best effort; the engine's version check still
			// protects state if a duplicate slips through.
			c.logg.Warn(msgCtx, fmt.Sprintf("dedupe check failed: %v", err))
			dedupeKey = ""
		} else if !first {
			c.logg.Info(msgCtx, "duplicate delivery skipped")
			c.commit(msgCtx, msg)
			return
		}
	}

	handlerCtx := msgCtx
	var cancel context.CancelFunc
	if c.cfg.HandlerTimeout > 0 {
		handlerCtx, cancel = context.WithTimeout(msgCtx, c.cfg.HandlerTimeout)
		defer cancel()
	}

	err := c.dispatcher.Dispatch(handlerCtx, msg.Topic, msg.Value)
	c.observe(msg.Topic, time.Since(started))

	switch {
	case err == nil:
		c.commit(msgCtx, msg)
		if c.metrics != nil {
			c.metrics.IncProcessed(msg.Topic)
		}
		c.logg.Info(msgCtx, "message processed")
		c.publish(msgCtx, tracing.LogLevelInfo, fmt.Sprintf("processed %s message", msg.Topic))

	case pkgerrors.HasCode(err, pkgerrors.CodeMalformedEvent):
		// Poison message: drop by committing, never requeue.
		c.logg.Error(msgCtx, "malformed message dropped", err)
		c.commit(msgCtx, msg)
		if c.metrics != nil {
			c.metrics.IncDropped(msg.Topic)
		}
		c.publish(msgCtx, tracing.LogLevelError, fmt.Sprintf("dropped malformed %s message", msg.Topic))

	case pkgerrors.HasCode(err, pkgerrors.CodeVersionConflict) || pkgerrors.Retryable(err):
		// Leave the offset uncommitted so the broker redelivers. Nothing was
		// committed by the engine, so the retry starts from clean state.
		c.logg.Error(msgCtx, "message processing failed, awaiting redelivery", err)
		if dedupeKey != "" {
			if clearErr := c.dedupe.ClearDelivery(msgCtx, dedupeKey); clearErr != nil {
				c.logg.Warn(msgCtx, fmt.Sprintf("clear dedupe key: %v", clearErr))
			}
		}
		if c.metrics != nil {
			c.metrics.IncFailed(msg.Topic)
		}

	default:
		// Deterministic business rejection: redelivery cannot change the
		// outcome, so commit and report it.
		c.logg.Warn(msgCtx, fmt.Sprintf("message rejected: %v", err))
		c.commit(msgCtx, msg)
		if c.metrics != nil {
			c.metrics.IncProcessed(msg.Topic)
		}
		c.publish(msgCtx, tracing.LogLevelWarn, fmt.Sprintf("rejected %s message: %s", msg.Topic, err))
	}
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logg.Error(ctx, "commit offset", err)
	}
}

func (c *Consumer) observe(topic string, elapsed time.Duration) {
	if c.metrics != nil {
		c.metrics.ObserveDuration(topic, elapsed)
	}
}

func (c *Consumer) publish(ctx context.Context, level tracing.LogLevel, message string) {
	if c.publisher == nil {
		return
	}
	c.publisher.Publish(ctx, level, message)
}
