package quota

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ai-assistant-be/internal/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisStore(client)
}

func TestRedisStore_IncrementIfBelow(t *testing.T) {
	mr, store := setupRedis(t)
	ctx := context.Background()

	n, err := store.Get(ctx, "quota:u1:ask:2026-05-04")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	for i := 0; i < 2; i++ {
		ok, err := store.IncrementIfBelow(ctx, "quota:u1:ask:2026-05-04", 2)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := store.IncrementIfBelow(ctx, "quota:u1:ask:2026-05-04", 2)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err = store.Get(ctx, "quota:u1:ask:2026-05-04")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, counterTTL, mr.TTL("quota:u1:ask:2026-05-04"))
}

func TestRedisStore_NonIntegerValue(t *testing.T) {
	mr, store := setupRedis(t)
	require.NoError(t, mr.Set("quota:u1:ask:2026-05-04", "abc"))

	_, err := store.Get(context.Background(), "quota:u1:ask:2026-05-04")
	assert.Error(t, err)
}

func TestRedisStore_LedgerConcurrency(t *testing.T) {
	_, store := setupRedis(t)
	ctx := context.Background()
	ledger := NewLedger(store, logger.NewNopLogger(), WithClock(fixedClock(time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC))))

	const callers = 30
	var admitted int64
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			if ledger.Consume(ctx, "u1", TierBasic, ResourceJobMatch) {
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(20), admitted)
	assert.Equal(t, 0, ledger.Remaining(ctx, "u1", TierBasic, ResourceJobMatch))
}

func TestRedisStore_ConnectionFailure(t *testing.T) {
	mr, store := setupRedis(t)
	mr.Close()

	ledger := NewLedger(store, logger.NewNopLogger())
	assert.False(t, ledger.Consume(context.Background(), "u1", TierPro, ResourceAsk))
}
