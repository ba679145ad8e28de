package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"roomly/pkg/kafka"
)

// Counters accumulates publish and consume outcomes for one process.
type Counters struct {
	published       atomic.Int64
	publishFailed   atomic.Int64
	publishDuration atomic.Int64
	consumed        atomic.Int64
	consumeFailed   atomic.Int64
	consumeDuration atomic.Int64
}

func NewCounters() *Counters {
	return &Counters{}
}

func (c *Counters) ProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		c.publishDuration.Add(int64(time.Since(start)))
		if err != nil {
			c.publishFailed.Add(1)
		} else {
			c.published.Add(1)
		}
		return err
	}
}

func (c *Counters) ConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		c.consumeDuration.Add(int64(time.Since(start)))
		if err != nil {
			c.consumeFailed.Add(1)
		} else {
			c.consumed.Add(1)
		}
		return err
	}
}

func avg(total, n int64) time.Duration {
	if n == 0 {
		return 0
	}
	return time.Duration(total / n)
}

// LogAttrs renders the counters as slog key-value pairs.
func (c *Counters) LogAttrs() []any {
	published, publishFailed := c.published.Load(), c.publishFailed.Load()
	consumed, consumeFailed := c.consumed.Load(), c.consumeFailed.Load()
	return []any{
		"published", published,
		"publish_failed", publishFailed,
		"avg_publish", avg(c.publishDuration.Load(), published+publishFailed).String(),
		"consumed", consumed,
		"consume_failed", consumeFailed,
		"avg_consume", avg(c.consumeDuration.Load(), consumed+consumeFailed).String(),
	}
}
