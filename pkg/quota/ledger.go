package quota

import (
	"context"
	"time"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/metrics"
)

// Ledger admits or rejects metered calls per (user, resource, UTC day).
// It never returns errors; a failing store means "not admitted".
type Ledger struct {
	store  CounterStore
	logger logger.ILogger
	now    func() time.Time
}

type LedgerOption func(*Ledger)

// WithClock overrides the time source used to pick the day partition.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		l.now = now
	}
}

func NewLedger(store CounterStore, log logger.ILogger, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		store:  store,
		logger: log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Remaining returns max(0, limit - used) for today.
func (l *Ledger) Remaining(ctx context.Context, userID string, tier Tier, resource string) int {
	limit := tier.Limit(resource)
	used, err := l.store.Get(ctx, Key(userID, resource, l.now()))
	if err != nil {
		l.logger.Error("QUOTA", "Failed to read counter", map[string]interface{}{
			"user_id":  userID,
			"resource": resource,
			"error":    err,
		})
		return 0
	}
	if used >= limit {
		return 0
	}
	return limit - used
}

// Consume increments today's counter when it is below the tier limit.
// Returns false without touching state once the limit is reached.
func (l *Ledger) Consume(ctx context.Context, userID string, tier Tier, resource string) bool {
	limit := tier.Limit(resource)
	if limit <= 0 {
		metrics.QuotaDecisions.WithLabelValues(resource, "rejected").Inc()
		return false
	}
	ok, err := l.store.IncrementIfBelow(ctx, Key(userID, resource, l.now()), limit)
	if err != nil {
		l.logger.Error("QUOTA", "Failed to consume quota", map[string]interface{}{
			"user_id":  userID,
			"resource": resource,
			"error":    err,
		})
		metrics.QuotaDecisions.WithLabelValues(resource, "error").Inc()
		return false
	}
	if !ok {
		metrics.QuotaDecisions.WithLabelValues(resource, "rejected").Inc()
		l.logger.Info("QUOTA", "Daily limit reached", map[string]interface{}{
			"user_id":  userID,
			"tier":     string(tier),
			"resource": resource,
			"limit":    limit,
		})
		return false
	}
	metrics.QuotaDecisions.WithLabelValues(resource, "admitted").Inc()
	return true
}

// ResetAfter is the time until the next UTC day starts.
func (l *Ledger) ResetAfter() time.Duration {
	now := l.now().UTC()
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	return next.Sub(now)
}

// ClampTopN bounds requested to [1, tier max].
func ClampTopN(tier Tier, requested int) int {
	if requested < 1 {
		requested = 1
	}
	if ceiling := tier.MaxTopN(); requested > ceiling {
		return ceiling
	}
	return requested
}
