package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/weihsuanlee/guidemap/adapters/event"
	"github.com/weihsuanlee/guidemap/adapters/persistence"
	"github.com/weihsuanlee/guidemap/internal/config"
	"github.com/weihsuanlee/guidemap/pkg/logger"
)

// The worker keeps the latest-status cache warm: every tag event re-reads
// the tag's latest status from Postgres and primes Redis, so map clients
// mostly hit the cache.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Starting Guidemap cache warmer...")

	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	statusRepo := persistence.NewPostgresStatusRepo(dbPool, appLogger)
	statusCache := persistence.NewRedisStatusCache(redisClient)

	tagConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicTagEvents,
		GroupID:  "status-cache-warmer-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer tagConsumer.Close()

	appLogger.Info("Worker listening on topic", zap.String("topic", event.TopicTagEvents))

	ctx := context.Background()
	for {
		msg, err := tagConsumer.FetchMessage(ctx)
		if err != nil {
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		var payload event.TagEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			appLogger.Error("Failed to unmarshal tag event, skipping", err)
			commitMessage(tagConsumer, msg, appLogger)
			continue
		}

		latest, err := statusRepo.Latest(ctx, payload.TagID)
		if err != nil {
			// the tag may have been deleted since the event was emitted
			appLogger.Warn("Could not refresh latest status",
				zap.String("tag_id", payload.TagID.String()), zap.Error(err))
			commitMessage(tagConsumer, msg, appLogger)
			continue
		}

		if err := statusCache.SetLatest(ctx, latest); err != nil {
			appLogger.Error("Failed to prime status cache", err, zap.String("tag_id", payload.TagID.String()))
			continue
		}

		commitMessage(tagConsumer, msg, appLogger)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message, appLogger logger.Logger) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		appLogger.Error("Failed to commit message", err)
	}
}
