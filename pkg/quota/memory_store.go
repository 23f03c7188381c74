package quota

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

type counter struct {
	mu sync.Mutex
	n  int
}

// MemoryStore keeps counters in process. Each key owns its own mutex, so
// increments on different keys never contend.
type MemoryStore struct {
	cache *cache.Cache
}

var _ CounterStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: cache.New(counterTTL, 10*time.Minute),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (int, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return 0, nil
	}
	c := v.(*counter)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n, nil
}

func (s *MemoryStore) IncrementIfBelow(_ context.Context, key string, limit int) (bool, error) {
	c := s.counterFor(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n >= limit {
		return false, nil
	}
	c.n++
	return true, nil
}

// counterFor returns the counter for key, creating it lazily.
// cache.Add fails when another goroutine won the race, in which case we read theirs.
func (s *MemoryStore) counterFor(key string) *counter {
	if v, ok := s.cache.Get(key); ok {
		return v.(*counter)
	}
	c := &counter{}
	if err := s.cache.Add(key, c, cache.DefaultExpiration); err == nil {
		return c
	}
	if v, ok := s.cache.Get(key); ok {
		return v.(*counter)
	}
	// Expired between Add and Get; fall back to a fresh entry.
	s.cache.Set(key, c, cache.DefaultExpiration)
	return c
}
