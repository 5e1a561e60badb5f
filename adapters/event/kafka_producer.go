package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/personal-card/internal/config"
	"github.com/khoahotran/personal-card/internal/domain/profile"
	"github.com/khoahotran/personal-card/pkg/logger"
)

const (
	TopicProfileEvents = "profile.events"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	ProfileEventsWriter messageWriter
	logger              logger.Logger
	now                 func() time.Time
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'profile.events'
	profileWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicProfileEvents,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", brokers))

	return newKafkaProducerClient(profileWriter, log), nil
}

func newKafkaProducerClient(w messageWriter, log logger.Logger) *KafkaProducerClient {
	return &KafkaProducerClient{ProfileEventsWriter: w, logger: log, now: time.Now}
}

// PublishProfileEvent keys messages by profile id so every event of a profile lands on the
// same partition in order.
func (c *KafkaProducerClient) PublishProfileEvent(ctx context.Context, payload ProfileEventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", payload.EventType, err)
	}
	err = c.ProfileEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(payload.ProfileID.String()),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("publish %s event: %w", payload.EventType, err)
	}
	return nil
}

// ProfileCreated announces a submitted profile to the worker.
func (c *KafkaProducerClient) ProfileCreated(ctx context.Context, r *profile.Record) error {
	return c.PublishProfileEvent(ctx, newProfilePayload(ProfileEventTypeCreated, r, c.now()))
}

func (c *KafkaProducerClient) ProfileDeleted(ctx context.Context, r *profile.Record) error {
	return c.PublishProfileEvent(ctx, newProfilePayload(ProfileEventTypeDeleted, r, c.now()))
}

func (c *KafkaProducerClient) Close() {
	if c.ProfileEventsWriter != nil {
		if err := c.ProfileEventsWriter.Close(); err != nil {
			c.logger.Error("Failed to close profile events writer", err)
		}
	}
	c.logger.Info("Closed Kafka Producers")
}
