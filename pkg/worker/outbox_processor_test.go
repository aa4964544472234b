package worker

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorsportal/portal-api/internal/model"
	"github.com/doctorsportal/portal-api/pkg/logger"
	"github.com/doctorsportal/portal-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("outbox_processor_test")

type fakeOutboxRepo struct {
	pending   []*model.OutboxEvent
	processed []string
	retried   []string
	failed    []string
}

func (f *fakeOutboxRepo) Create(context.Context, *model.OutboxEvent) error { return nil }

func (f *fakeOutboxRepo) ClaimPending(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	if len(f.pending) > limit {
		claimed := f.pending[:limit]
		f.pending = f.pending[limit:]
		return claimed, nil
	}
	claimed := f.pending
	f.pending = nil
	return claimed, nil
}

func (f *fakeOutboxRepo) MarkProcessed(_ context.Context, id string) error {
	f.processed = append(f.processed, id)
	return nil
}

func (f *fakeOutboxRepo) MarkRetry(_ context.Context, id string, _ string) error {
	f.retried = append(f.retried, id)
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(_ context.Context, id string, _ string) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakeBroker struct {
	published []string
	err       error
}

func (f *fakeBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, channel)
	return nil
}

func (f *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, nil
}

func (f *fakeBroker) Close() error { return nil }

func newTestProcessor(repo *fakeOutboxRepo, broker *fakeBroker) *OutboxProcessor {
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	return NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		Channel:       "test.events",
		BatchSize:     10,
		PollInterval:  time.Millisecond,
		RetryAttempts: 2,
	}, log, testMetrics)
}

func event(id string) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:        id,
		EventType: model.EventBookingCreated,
		Status:    model.OutboxStatusProcessing,
	}
}

func TestProcessEventsPublishesAndMarks(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{event("a"), event("b")}}
	broker := &fakeBroker{}
	p := newTestProcessor(repo, broker)

	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, []string{"test.events", "test.events"}, broker.published)
	assert.Equal(t, []string{"a", "b"}, repo.processed)
	assert.Empty(t, repo.retried)
	assert.Empty(t, repo.failed)
}

func TestProcessEventsRequeuesOnPublishFailure(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{event("a")}}
	broker := &fakeBroker{err: errors.New("broker down")}
	p := newTestProcessor(repo, broker)

	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, []string{"a"}, repo.retried)
	assert.Empty(t, repo.processed)
	assert.Empty(t, repo.failed)
}

func TestProcessEventsParksExhaustedEvent(t *testing.T) {
	exhausted := event("a")
	exhausted.RetryCount = 1
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{exhausted}}
	broker := &fakeBroker{err: errors.New("broker down")}
	p := newTestProcessor(repo, broker)

	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, []string{"a"}, repo.failed)
	assert.Empty(t, repo.retried)
}

func TestStartStopsOnContextCancel(t *testing.T) {
	repo := &fakeOutboxRepo{}
	p := newTestProcessor(repo, &fakeBroker{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("processor did not stop after cancellation")
	}
}
