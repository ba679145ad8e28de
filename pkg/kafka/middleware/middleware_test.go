package kafka_middleware

import (
	"context"
	"errors"
	"testing"

	"roomly/pkg/kafka"
	"roomly/pkg/logger"
)

func TestCounters(t *testing.T) {
	c := NewCounters()
	log := logger.Discard()

	ok := func(context.Context, kafka.Message) error { return nil }
	fail := func(context.Context, kafka.Message) error { return errors.New("broker down") }

	produce := c.ProducerMiddleware()
	consume := c.ConsumerMiddleware()
	logged := LoggingConsumerMiddleware(log)

	msg := kafka.Message{Key: "room", Headers: map[string]string{}}
	_ = produce(context.Background(), msg, ok)
	_ = produce(context.Background(), msg, fail)
	_ = consume(context.Background(), msg, ok)
	if err := logged(context.Background(), msg, fail); err == nil {
		t.Fatal("logging middleware must return the handler error")
	}

	attrs := c.LogAttrs()
	got := map[string]any{}
	for i := 0; i < len(attrs); i += 2 {
		got[attrs[i].(string)] = attrs[i+1]
	}
	if got["published"] != int64(1) || got["publish_failed"] != int64(1) || got["consumed"] != int64(1) {
		t.Errorf("unexpected counters %v", got)
	}
}
