package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *countingLogger) add(m string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, m)
}

func (l *countingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

func (l *countingLogger) Debug(_ string, m string, _ map[string]interface{}) { l.add(m) }
func (l *countingLogger) Info(_ string, m string, _ map[string]interface{})  { l.add(m) }
func (l *countingLogger) Warn(_ string, m string, _ map[string]interface{})  { l.add(m) }
func (l *countingLogger) Error(_ string, m string, _ map[string]interface{}) { l.add(m) }
func (l *countingLogger) Sync() error                                        { return nil }

type remotePublisher struct {
	mu  sync.Mutex
	got []events.Event
}

func (r *remotePublisher) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, e)
	return nil
}

func (r *remotePublisher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

func dispatched() events.Event {
	return events.BaseEvent{Type: events.IntentDispatched, Data: map[string]interface{}{"intent": "poetry"}, OccurredAt: time.Now()}
}

func TestAuditFeed_NATSAttachedSkipsLocalBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewLocalBus(logger.NewNopLogger())
	defer bus.Close()
	remote := &remotePublisher{}
	audit := &countingLogger{}

	var attached events.Handler
	publisher, svc := auditFeed(bus, remote, func(h events.Handler) error {
		attached = h
		return nil
	}, audit)

	require.NotNil(t, attached)
	assert.Equal(t, events.Fanout{remote}, publisher)
	require.NoError(t, svc.Consume(ctx))

	event := dispatched()
	require.NoError(t, publisher.Publish(ctx, event))
	assert.Equal(t, 1, remote.count())

	// The broker redelivers the event to the durable consumer exactly once.
	require.NoError(t, attached(ctx, event))
	assert.Equal(t, 1, audit.count())
}

func TestAuditFeed_FallsBackToLocalBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewLocalBus(logger.NewNopLogger())
	defer bus.Close()
	remote := &remotePublisher{}
	audit := &countingLogger{}

	publisher, svc := auditFeed(bus, remote, func(events.Handler) error {
		return errors.New("stream not found")
	}, audit)

	assert.Len(t, publisher, 2)
	require.NoError(t, svc.Consume(ctx))
	require.NoError(t, publisher.Publish(ctx, dispatched()))

	assert.Eventually(t, func() bool { return audit.count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, remote.count())
}

func TestAuditFeed_LocalOnly(t *testing.T) {
	bus := events.NewLocalBus(logger.NewNopLogger())
	defer bus.Close()

	publisher, _ := auditFeed(bus, nil, nil, &countingLogger{})
	assert.Equal(t, events.Fanout{bus}, publisher)
}
