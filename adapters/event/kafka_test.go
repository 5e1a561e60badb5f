package event

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/personal-card/internal/domain/profile"
	"github.com/khoahotran/personal-card/pkg/logger"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestProfileCreated_PublishesKeyedPayload(t *testing.T) {
	w := &fakeWriter{}
	client := newKafkaProducerClient(w, logger.NewNopLogger())
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return at }

	rec := &profile.Record{ID: uuid.New(), UserID: uuid.New(), PictureObject: "profile-pictures/a.png"}
	require.NoError(t, client.ProfileCreated(context.Background(), rec))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, rec.ID.String(), string(w.msgs[0].Key))

	var got ProfileEventPayload
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, ProfileEventPayload{
		EventType:     ProfileEventTypeCreated,
		ProfileID:     rec.ID,
		OwnerID:       rec.UserID,
		PictureObject: "profile-pictures/a.png",
		OccurredAt:    at,
	}, got)
}

func TestPublish_WrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	client := newKafkaProducerClient(&fakeWriter{err: boom}, logger.NewNopLogger())

	err := client.ProfileDeleted(context.Background(), &profile.Record{ID: uuid.New()})
	assert.ErrorIs(t, err, boom)
}

type fakeReader struct {
	mu        sync.Mutex
	fetchErrs []error
	fetches   int
	queue     []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches++
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		return kafka.Message{}, err
	}
	if len(r.queue) == 0 {
		r.cancel()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func newTestConsumer(r *fakeReader) *ProfileEventConsumer {
	c := newProfileEventConsumer(r, logger.NewNopLogger())
	c.backoff = time.Millisecond
	c.maxBackoff = 4 * time.Millisecond
	return c
}

func TestConsumer_CommitsHandledAndMalformedMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ok, _ := json.Marshal(ProfileEventPayload{EventType: ProfileEventTypeCreated, ProfileID: uuid.New()})

	reader := &fakeReader{cancel: cancel, queue: []kafka.Message{
		{Offset: 1, Value: ok},
		{Offset: 2, Value: []byte("{not json")},
	}}

	var seen []ProfileEventType
	err := newTestConsumer(reader).Run(ctx, func(_ context.Context, p ProfileEventPayload) error {
		seen = append(seen, p.EventType)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []ProfileEventType{ProfileEventTypeCreated}, seen)
	// malformed payloads are committed so they do not block the partition
	assert.Equal(t, []int64{1, 2}, reader.committed)
}

func TestConsumer_RetriesFailedMessageBeforeMovingOn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := uuid.New()
	second := uuid.New()
	v1, _ := json.Marshal(ProfileEventPayload{EventType: ProfileEventTypeDeleted, ProfileID: first})
	v2, _ := json.Marshal(ProfileEventPayload{EventType: ProfileEventTypeCreated, ProfileID: second})

	reader := &fakeReader{cancel: cancel, queue: []kafka.Message{
		{Offset: 1, Value: v1},
		{Offset: 2, Value: v2},
	}}

	var handled []uuid.UUID
	failures := 2
	err := newTestConsumer(reader).Run(ctx, func(_ context.Context, p ProfileEventPayload) error {
		handled = append(handled, p.ProfileID)
		if p.ProfileID == first && failures > 0 {
			failures--
			return errors.New("object store unavailable")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, first, first, second}, handled)
	assert.Equal(t, []int64{1, 2}, reader.committed)
}

func TestConsumer_CancelDuringRetryLeavesMessageUncommitted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v, _ := json.Marshal(ProfileEventPayload{EventType: ProfileEventTypeCreated, ProfileID: uuid.New()})
	reader := &fakeReader{cancel: cancel, queue: []kafka.Message{{Offset: 7, Value: v}}}

	calls := 0
	err := newTestConsumer(reader).Run(ctx, func(context.Context, ProfileEventPayload) error {
		calls++
		if calls == 3 {
			cancel()
		}
		return errors.New("still failing")
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Empty(t, reader.committed)
}

func TestConsumer_BacksOffOnFetchErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broken := errors.New("broker unreachable")
	reader := &fakeReader{cancel: cancel, fetchErrs: []error{broken, broken, broken}}
	consumer := newTestConsumer(reader)

	start := time.Now()
	require.NoError(t, consumer.Run(ctx, func(context.Context, ProfileEventPayload) error { return nil }))

	// 1ms + 2ms + 4ms of backoff before the queue drains
	assert.GreaterOrEqual(t, time.Since(start), 7*time.Millisecond)
	assert.Equal(t, 4, reader.fetches)
}
