package events

import (
	"context"
	"fmt"

	"ai-assistant-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const LocalTopic = "assistant.events"

// LocalBus is an in-process bus on watermill's go channel pub/sub.
type LocalBus struct {
	pubSub *gochannel.GoChannel
	logger logger.ILogger
}

func NewLocalBus(log logger.ILogger) *LocalBus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NopLogger{},
	)
	return &LocalBus{pubSub: pubSub, logger: log}
}

func (b *LocalBus) Publish(_ context.Context, event Event) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := b.pubSub.Publish(LocalTopic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.EventType(), err)
	}
	return nil
}

// Subscribe runs handler for each event until ctx is done or the bus closes.
func (b *LocalBus) Subscribe(ctx context.Context, handler Handler) error {
	messages, err := b.pubSub.Subscribe(ctx, LocalTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			b.process(ctx, msg, handler)
		}
	}()
	return nil
}

func (b *LocalBus) process(ctx context.Context, msg *message.Message, handler Handler) {
	event, err := Decode(msg.Payload)
	if err != nil {
		b.logger.Warn("EVENTS", "Dropping malformed event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack()
		return
	}
	if err := handler(ctx, event); err != nil {
		b.logger.Warn("EVENTS", "Event handler failed", map[string]interface{}{
			"type":  event.Type,
			"error": err.Error(),
		})
	}
	// Always ack; handlers are best-effort.
	msg.Ack()
}

func (b *LocalBus) Close() error {
	return b.pubSub.Close()
}
