package implementation

import (
	"context"
	"errors"
	"fmt"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/pkg/quota"

	"github.com/redis/go-redis/v9"
)

func tierKey(userID string) string {
	return fmt.Sprintf("tatha:tier:%s", userID)
}

// RedisTierRepository stores overrides under tatha:tier:{user_id}.
// Only basic and pro are meaningful overrides.
type RedisTierRepository struct {
	client redis.UniversalClient
	logger logger.ILogger
}

func NewRedisTierRepository(client redis.UniversalClient, log logger.ILogger) contract.TierRepository {
	return &RedisTierRepository{client: client, logger: log}
}

func (r *RedisTierRepository) Lookup(ctx context.Context, userID string) (quota.Tier, bool) {
	val, err := r.client.Get(ctx, tierKey(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("TIER", "Failed to read tier override", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
		return "", false
	}
	switch quota.Tier(val) {
	case quota.TierBasic, quota.TierPro:
		return quota.Tier(val), true
	}
	return "", false
}

func (r *RedisTierRepository) Set(ctx context.Context, userID string, tier quota.Tier) error {
	if err := r.client.Set(ctx, tierKey(userID), string(tier), 0).Err(); err != nil {
		return fmt.Errorf("failed to store tier override: %w", err)
	}
	return nil
}
