package quota

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// incrementIfBelow runs server-side so check and increment are one atomic step.
var incrementIfBelow = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if current >= tonumber(ARGV[1]) then
	return 0
end
redis.call("INCR", KEYS[1])
redis.call("EXPIRE", KEYS[1], ARGV[2])
return 1
`)

// RedisStore shares counters across instances.
type RedisStore struct {
	client redis.UniversalClient
}

var _ CounterStore = (*RedisStore)(nil)

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (int, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get %s: %w", key, err)
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("redis counter %s is not an integer: %w", key, err)
	}
	return n, nil
}

func (s *RedisStore) IncrementIfBelow(ctx context.Context, key string, limit int) (bool, error) {
	res, err := incrementIfBelow.Run(ctx, s.client, []string{key}, limit, int(counterTTL.Seconds())).Int()
	if err != nil {
		return false, fmt.Errorf("redis increment %s: %w", key, err)
	}
	return res == 1, nil
}
