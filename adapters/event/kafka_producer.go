package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/weihsuanlee/guidemap/internal/config"
)

const TopicTagEvents = "tag.events"

const (
	TagEventTypeAdded   = "added"
	TagEventTypeUpdated = "updated"
)

type TagEventPayload struct {
	EventType string    `json:"event_type"`
	TagID     uuid.UUID `json:"tag_id"`
	ActorID   string    `json:"actor_id"`
	EmittedAt time.Time `json:"emitted_at"`
}

type KafkaProducerClient struct {
	TagEventsWriter *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	tagWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicTagEvents,
		Balancer: &kafka.LeastBytes{},
	}

	return &KafkaProducerClient{TagEventsWriter: tagWriter}, nil
}

// PublishTagEvent is best-effort fan-out: callers fire it after a committed
// mutation and only log failures.
func (c *KafkaProducerClient) PublishTagEvent(ctx context.Context, payload TagEventPayload) error {
	if payload.EmittedAt.IsZero() {
		payload.EmittedAt = time.Now().UTC()
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal tag event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(payload.TagID.String()),
		Value: value,
	}
	if err := c.TagEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write tag event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.TagEventsWriter != nil {
		c.TagEventsWriter.Close()
	}
}
