package service

import (
	"context"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/events"
)

type IUsageAuditService interface {
	Consume(ctx context.Context) error
	Handle(ctx context.Context, event events.Event) error
}

// usageAuditService writes every assistant event to the audit log. It is
// fed either by the in-process bus or by the NATS subscriber, never both.
type usageAuditService struct {
	bus   *events.LocalBus
	audit logger.ILogger
}

func NewUsageAuditService(bus *events.LocalBus, audit logger.ILogger) IUsageAuditService {
	return &usageAuditService{bus: bus, audit: audit}
}

// Consume subscribes Handle to the in-process bus. Without a bus the events
// arrive through another feed and Consume does nothing.
func (s *usageAuditService) Consume(ctx context.Context) error {
	if s.bus == nil {
		return nil
	}
	return s.bus.Subscribe(ctx, s.Handle)
}

func (s *usageAuditService) Handle(_ context.Context, event events.Event) error {
	details := make(map[string]interface{}, len(event.Payload())+1)
	for k, v := range event.Payload() {
		details[k] = v
	}
	details["occurred_at"] = event.Timestamp()

	switch event.EventType() {
	case events.QuotaExceeded:
		s.audit.Warn("USAGE", event.EventType(), details)
	default:
		s.audit.Info("USAGE", event.EventType(), details)
	}
	return nil
}
