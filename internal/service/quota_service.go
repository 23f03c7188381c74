package service

import (
	"context"
	"strings"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/quota"
)

// quotaGate admits a request against the caller's daily quota.
type quotaGate struct {
	ledger    *quota.Ledger
	publisher events.Publisher
	logger    logger.ILogger
}

func (g *quotaGate) admit(ctx context.Context, p serverutils.Principal, resource string) error {
	if strings.TrimSpace(p.UserID) == "" {
		return ErrMissingIdentity
	}
	if g.ledger.Consume(ctx, p.UserID, p.Tier, resource) {
		return nil
	}

	limit := p.Tier.Limit(resource)
	g.logger.Info("QUOTA", "Daily quota exhausted", map[string]interface{}{
		"user_id":  p.UserID,
		"tier":     string(p.Tier),
		"resource": resource,
	})
	publishBestEffort(ctx, g.publisher, g.logger, events.BaseEvent{
		Type: events.QuotaExceeded,
		Data: map[string]interface{}{
			"user_id":  p.UserID,
			"tier":     string(p.Tier),
			"resource": resource,
			"limit":    limit,
		},
		OccurredAt: time.Now(),
	})
	return &dto.LimitExceededError{
		Resource:   resource,
		Limit:      limit,
		Used:       limit - g.ledger.Remaining(ctx, p.UserID, p.Tier, resource),
		ResetAfter: time.Now().Add(g.ledger.ResetAfter()).UTC(),
	}
}

func publishBestEffort(ctx context.Context, publisher events.Publisher, log logger.ILogger, evt events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, evt); err != nil {
		log.Warn("EVENTS", "Failed to publish event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
	}
}

type IQuotaService interface {
	Status(ctx context.Context, p serverutils.Principal) (*dto.QuotaResponse, error)
	StubUpgrade(ctx context.Context, req *dto.StubUpgradeRequest) error
}

type quotaService struct {
	ledger       *quota.Ledger
	tiers        contract.TierRepository
	allowUpgrade bool
	logger       logger.ILogger
}

// NewQuotaService builds the quota view. allowUpgrade enables the
// development-only tier grant endpoint.
func NewQuotaService(ledger *quota.Ledger, tiers contract.TierRepository, allowUpgrade bool, log logger.ILogger) IQuotaService {
	return &quotaService{ledger: ledger, tiers: tiers, allowUpgrade: allowUpgrade, logger: log}
}

func (s *quotaService) Status(ctx context.Context, p serverutils.Principal) (*dto.QuotaResponse, error) {
	if strings.TrimSpace(p.UserID) == "" {
		return nil, ErrMissingIdentity
	}

	res := &dto.QuotaResponse{
		UserID:    p.UserID,
		Tier:      string(p.Tier),
		Remaining: make(map[string]int, len(quota.Resources)),
		Limits:    make(map[string]int, len(quota.Resources)),
		MaxTopN:   p.Tier.MaxTopN(),
	}
	for _, resource := range quota.Resources {
		res.Limits[resource] = p.Tier.Limit(resource)
		res.Remaining[resource] = s.ledger.Remaining(ctx, p.UserID, p.Tier, resource)
	}
	return res, nil
}

func (s *quotaService) StubUpgrade(ctx context.Context, req *dto.StubUpgradeRequest) error {
	if !s.allowUpgrade || s.tiers == nil {
		return ErrStubUpgradeDisabled
	}
	tier := quota.ParseTier(req.Tier)
	if err := s.tiers.Set(ctx, req.UserID, tier); err != nil {
		return err
	}
	s.logger.Info("QUOTA", "Tier override granted", map[string]interface{}{
		"user_id": req.UserID,
		"tier":    string(tier),
	})
	return nil
}
