package memory

import (
	"context"

	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/pkg/quota"

	"github.com/patrickmn/go-cache"
)

// TierRepository keeps tier overrides for the life of the process.
type TierRepository struct {
	cache *cache.Cache
}

func NewTierRepository() contract.TierRepository {
	return &TierRepository{cache: cache.New(cache.NoExpiration, 0)}
}

func (r *TierRepository) Lookup(_ context.Context, userID string) (quota.Tier, bool) {
	x, found := r.cache.Get(userID)
	if !found {
		return "", false
	}
	return x.(quota.Tier), true
}

func (r *TierRepository) Set(_ context.Context, userID string, tier quota.Tier) error {
	r.cache.Set(userID, tier, cache.NoExpiration)
	return nil
}
