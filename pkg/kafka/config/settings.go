package kafka_config

import (
	"strings"
	"time"
)

const (
	EnvKafkaBrokers = "KAFKA_BROKERS"

	EnvKafkaProducerMaxAttempts  = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvKafkaProducerBatchTimeout = "KAFKA_PRODUCER_BATCH_TIMEOUT"
	EnvKafkaProducerRequireAcks  = "KAFKA_PRODUCER_REQUIRE_ACKS"
	EnvKafkaProducerCompression  = "KAFKA_PRODUCER_COMPRESSION"
	EnvKafkaProducerAsync        = "KAFKA_PRODUCER_ASYNC"

	EnvKafkaConsumerStartOffset       = "KAFKA_CONSUMER_START_OFFSET"
	EnvKafkaConsumerMinBytes          = "KAFKA_CONSUMER_MIN_BYTES"
	EnvKafkaConsumerMaxBytes          = "KAFKA_CONSUMER_MAX_BYTES"
	EnvKafkaConsumerMaxWait           = "KAFKA_CONSUMER_MAX_WAIT"
	EnvKafkaConsumerCommitInterval    = "KAFKA_CONSUMER_COMMIT_INTERVAL"
	EnvKafkaConsumerHeartbeatInterval = "KAFKA_CONSUMER_HEARTBEAT_INTERVAL"
	EnvKafkaConsumerSessionTimeout    = "KAFKA_CONSUMER_SESSION_TIMEOUT"
	EnvKafkaConsumerRebalanceTimeout  = "KAFKA_CONSUMER_REBALANCE_TIMEOUT"
	EnvKafkaConsumerMaxRetries        = "KAFKA_CONSUMER_MAX_RETRIES"
	EnvKafkaConsumerRetryBackoff      = "KAFKA_CONSUMER_RETRY_BACKOFF"

	EnvKafkaEnableMiddleware = "KAFKA_ENABLE_MIDDLEWARE"
)

const (
	OffsetNewest int64 = -1
	OffsetOldest int64 = -2
)

// Defaults returns the settings used when no KAFKA_* variable is set.
//
// The audit retry consumer starts from the oldest offset so records queued
// before its group first joined are still appended. Notification and audit
// payloads are small JSON documents, so fetches are capped at 1MB.
func Defaults() *Config {
	return &Config{
		Brokers: []string{"localhost:9092"},

		ProducerMaxAttempts:  3,
		ProducerBatchTimeout: 10 * time.Millisecond,
		ProducerRequireAcks:  -1,
		ProducerCompression:  "snappy",
		ProducerAsync:        false,

		ConsumerStartOffset:       OffsetOldest,
		ConsumerMinBytes:          1,
		ConsumerMaxBytes:          1 << 20,
		ConsumerMaxWait:           500 * time.Millisecond,
		ConsumerCommitInterval:    time.Second,
		ConsumerHeartbeatInterval: 3 * time.Second,
		ConsumerSessionTimeout:    10 * time.Second,
		ConsumerRebalanceTimeout:  60 * time.Second,
		ConsumerMaxRetries:        5,
		ConsumerRetryBackoff:      time.Second,

		EnableMiddleware: true,
	}
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, broker := range strings.Split(raw, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}
