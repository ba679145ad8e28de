package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	recordrepo "roomly/internal/records/repository"
	"roomly/internal/records/retry"
	"roomly/pkg/config"
	"roomly/pkg/db/memory"
	"roomly/pkg/kafka"
	kafka_config "roomly/pkg/kafka/config"
	kafkamw "roomly/pkg/kafka/middleware"
)

const ServiceName = "audit-retry"

func main() {
	cfg := config.Load(ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg.Connect(ctx)

	kcfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kcfg.LogConfiguration(cfg.Log)

	consumer, err := kafka.NewConsumer(kcfg, cfg.AuditRetryTopic, cfg.AuditRetryGroup, cfg.AuditRetryDLQTopic,
		retry.NewHandler(recordRepository(cfg), cfg.Log), cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create audit retry consumer", "error", err, "topic", cfg.AuditRetryTopic)
	}

	counters := kafkamw.NewCounters()
	consumer.Use(kafkamw.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(counters.ConsumerMiddleware())

	cfg.Log.Info("Consuming audit retry topic",
		"topic", cfg.AuditRetryTopic,
		"group", cfg.AuditRetryGroup,
		"dlq_topic", cfg.AuditRetryDLQTopic,
	)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Audit retry consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Audit retry consumer stopped", append(counters.LogAttrs(), "lag", consumer.Lag())...)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	cfg.GracefulShutdown(shutdownCtx)
}

func recordRepository(cfg *config.Config) recordrepo.RecordRepository {
	switch cfg.StoreDriver {
	case config.StoreFirestore:
		return recordrepo.NewFirestoreRecordRepository(cfg)
	case config.StoreMemory:
		cfg.Log.Warn("Audit retry running against an in-memory store, recovered records are not shared")
		return recordrepo.NewMemoryRecordRepository(memory.New())
	default:
		return recordrepo.NewMongoRecordRepository(cfg)
	}
}
