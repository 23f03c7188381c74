package contract

import (
	"context"

	"ai-assistant-be/pkg/quota"
)

// TierRepository holds locally granted tiers that override the token's tier.
type TierRepository interface {
	Lookup(ctx context.Context, userID string) (quota.Tier, bool)
	Set(ctx context.Context, userID string, tier quota.Tier) error
}
