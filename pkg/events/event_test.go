package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-assistant-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	got []Event
	err error
}

func (r *recordingPublisher) Publish(_ context.Context, e Event) error {
	r.got = append(r.got, e)
	return r.err
}

func TestEncodeDecode(t *testing.T) {
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	data, err := Encode(BaseEvent{
		Type:       IntentDispatched,
		Data:       map[string]interface{}{"intent": "poetry"},
		OccurredAt: at,
	})
	require.NoError(t, err)

	evt, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, IntentDispatched, evt.EventType())
	assert.Equal(t, "poetry", evt.Payload()["intent"])
	assert.True(t, at.Equal(evt.Timestamp()))
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"data":{}}`))
	assert.EqualError(t, err, "event has no type")
}

func TestFanout(t *testing.T) {
	ok := &recordingPublisher{}
	broken := &recordingPublisher{err: errors.New("bus down")}
	evt := BaseEvent{Type: QuotaExceeded}

	err := Fanout{ok, nil, broken}.Publish(context.Background(), evt)

	assert.ErrorContains(t, err, "bus down")
	assert.Len(t, ok.got, 1)
	assert.Len(t, broken.got, 1)
	assert.NoError(t, Fanout{}.Publish(context.Background(), evt))
}

func TestLocalBus_Delivers(t *testing.T) {
	bus := NewLocalBus(logger.NewNopLogger())
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Event, 1)
	require.NoError(t, bus.Subscribe(ctx, func(_ context.Context, e Event) error {
		received <- e
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, BaseEvent{
		Type:       IntentDispatched,
		Data:       map[string]interface{}{"user_id": "u1"},
		OccurredAt: time.Now(),
	}))

	select {
	case e := <-received:
		assert.Equal(t, IntentDispatched, e.EventType())
		assert.Equal(t, "u1", e.Payload()["user_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}
