package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/personal-card/internal/config"
	"github.com/khoahotran/personal-card/pkg/logger"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ProfileEventHandler processes one event. A returned error makes the consumer retry the same
// message; later messages of the partition wait behind it.
type ProfileEventHandler func(ctx context.Context, payload ProfileEventPayload) error

const (
	defaultRetryBackoff = time.Second
	defaultMaxBackoff   = 30 * time.Second
)

type ProfileEventConsumer struct {
	reader     messageReader
	logger     logger.Logger
	backoff    time.Duration
	maxBackoff time.Duration
}

func NewProfileEventConsumer(cfg config.Config, log logger.Logger) (*ProfileEventConsumer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    TopicProfileEvents,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	return newProfileEventConsumer(reader, log), nil
}

func newProfileEventConsumer(r messageReader, log logger.Logger) *ProfileEventConsumer {
	return &ProfileEventConsumer{
		reader:     r,
		logger:     log,
		backoff:    defaultRetryBackoff,
		maxBackoff: defaultMaxBackoff,
	}
}

// Run blocks until ctx is cancelled. Offsets are committed in order: a message whose handler
// fails is retried with backoff and never skipped.
func (c *ProfileEventConsumer) Run(ctx context.Context, handle ProfileEventHandler) error {
	c.logger.Info("Worker listening on topic", zap.String("topic", TopicProfileEvents))
	fetchDelay := c.backoff
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err, zap.Duration("backoff", fetchDelay))
			if !sleep(ctx, fetchDelay) {
				return nil
			}
			fetchDelay = c.next(fetchDelay)
			continue
		}
		fetchDelay = c.backoff

		l := c.logger.With(zap.String("topic", msg.Topic), zap.String("key", string(msg.Key)), zap.Int64("offset", msg.Offset))

		var payload ProfileEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			l.Error("Failed to unmarshal event, skipping", err)
			c.commit(ctx, msg)
			continue
		}

		if !c.handleUntilDone(ctx, l, payload, handle) {
			// cancelled mid-retry: left uncommitted for the next run
			return nil
		}
		c.commit(ctx, msg)
	}
}

// handleUntilDone reports false only when ctx ends before the handler succeeds.
func (c *ProfileEventConsumer) handleUntilDone(ctx context.Context, l logger.Logger, payload ProfileEventPayload, handle ProfileEventHandler) bool {
	delay := c.backoff
	for attempt := 1; ; attempt++ {
		err := handle(ctx, payload)
		if err == nil {
			return true
		}
		l.Error("Failed to process event, will retry", err,
			zap.String("event_type", string(payload.EventType)),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
		)
		if !sleep(ctx, delay) {
			return false
		}
		delay = c.next(delay)
	}
}

func (c *ProfileEventConsumer) next(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	return min(d*2, c.maxBackoff)
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *ProfileEventConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("Failed to commit message", err, zap.Int64("offset", msg.Offset))
	}
}

func (c *ProfileEventConsumer) Close() error {
	return c.reader.Close()
}
