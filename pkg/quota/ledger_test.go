package quota

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ai-assistant-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTierLimits(t *testing.T) {
	tests := []struct {
		tier     Tier
		resource string
		want     int
	}{
		{TierFree, ResourceJobMatch, 3},
		{TierFree, ResourceAsk, 1},
		{TierFree, ResourceResumeParse, 1},
		{TierFree, ResourceRAG, 0},
		{TierBasic, ResourceJobMatch, 20},
		{TierBasic, ResourceAsk, 15},
		{TierBasic, ResourceResumeParse, 5},
		{TierBasic, ResourceRAG, 10},
		{TierPro, ResourceAsk, 9999},
		{Tier("enterprise"), ResourceAsk, 1},
		{TierPro, "unknown_resource", 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier)+"/"+tt.resource, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tier.Limit(tt.resource))
		})
	}
}

func TestParseTier(t *testing.T) {
	assert.Equal(t, TierBasic, ParseTier(" Basic "))
	assert.Equal(t, TierPro, ParseTier("PRO"))
	assert.Equal(t, TierFree, ParseTier(""))
	assert.Equal(t, TierFree, ParseTier("gold"))
}

func TestClampTopN(t *testing.T) {
	tests := []struct {
		name      string
		tier      Tier
		requested int
		want      int
	}{
		{"free over ceiling", TierFree, 10, 3},
		{"basic over ceiling", TierBasic, 10, 5},
		{"pro within ceiling", TierPro, 10, 10},
		{"pro over ceiling", TierPro, 50, 20},
		{"zero clamps up", TierFree, 0, 1},
		{"negative clamps up", TierPro, -4, 1},
		{"exact ceiling", TierBasic, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampTopN(tt.tier, tt.requested))
		})
	}
}

func TestKey_UsesUTCDay(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("EST", -5*60*60)
	now := time.Date(2026, 3, 1, 23, 30, 0, 0, loc)
	assert.Equal(t, "quota:u1:ask:2026-03-02", Key("u1", ResourceAsk, now))
}

func TestLedger_ConsumeUntilLimit(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(NewMemoryStore(), logger.NewNopLogger(), WithClock(fixedClock(time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC))))

	assert.Equal(t, 3, ledger.Remaining(ctx, "u1", TierFree, ResourceJobMatch))
	for i := 0; i < 3; i++ {
		assert.True(t, ledger.Consume(ctx, "u1", TierFree, ResourceJobMatch), "call %d", i)
	}
	assert.False(t, ledger.Consume(ctx, "u1", TierFree, ResourceJobMatch))
	assert.Equal(t, 0, ledger.Remaining(ctx, "u1", TierFree, ResourceJobMatch))

	// Other users and other resources are independent.
	assert.True(t, ledger.Consume(ctx, "u2", TierFree, ResourceJobMatch))
	assert.True(t, ledger.Consume(ctx, "u1", TierFree, ResourceAsk))
}

func TestLedger_FreeAskAdmitsOnce(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(NewMemoryStore(), logger.NewNopLogger())

	assert.True(t, ledger.Consume(ctx, "u1", TierFree, ResourceAsk))
	assert.False(t, ledger.Consume(ctx, "u1", TierFree, ResourceAsk))
	assert.Equal(t, 0, ledger.Remaining(ctx, "u1", TierFree, ResourceAsk))
}

func TestLedger_ZeroLimitNeverAdmits(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ledger := NewLedger(store, logger.NewNopLogger())

	assert.False(t, ledger.Consume(ctx, "u1", TierFree, ResourceRAG))
	assert.Equal(t, 0, ledger.Remaining(ctx, "u1", TierFree, ResourceRAG))
}

func TestLedger_DayRollover(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 4, 23, 59, 0, 0, time.UTC)
	ledger := NewLedger(NewMemoryStore(), logger.NewNopLogger(), WithClock(func() time.Time { return now }))

	require.True(t, ledger.Consume(ctx, "u1", TierFree, ResourceAsk))
	require.False(t, ledger.Consume(ctx, "u1", TierFree, ResourceAsk))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, ledger.Remaining(ctx, "u1", TierFree, ResourceAsk))
	assert.True(t, ledger.Consume(ctx, "u1", TierFree, ResourceAsk))
}

func TestLedger_ResetAfter(t *testing.T) {
	ledger := NewLedger(NewMemoryStore(), logger.NewNopLogger(), WithClock(fixedClock(time.Date(2026, 5, 4, 22, 0, 0, 0, time.UTC))))
	assert.Equal(t, 2*time.Hour, ledger.ResetAfter())
}

func TestLedger_ConcurrentConsumeNeverExceedsLimit(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(NewMemoryStore(), logger.NewNopLogger())

	const callers = 50
	var admitted int64
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			if ledger.Consume(ctx, "u1", TierBasic, ResourceAsk) {
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(15), admitted)
	assert.Equal(t, 0, ledger.Remaining(ctx, "u1", TierBasic, ResourceAsk))
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (int, error) {
	return 0, errors.New("store down")
}

func (failingStore) IncrementIfBelow(context.Context, string, int) (bool, error) {
	return false, errors.New("store down")
}

func TestLedger_StoreFailureIsNotAdmitted(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(failingStore{}, logger.NewNopLogger())

	assert.False(t, ledger.Consume(ctx, "u1", TierPro, ResourceAsk))
	assert.Equal(t, 0, ledger.Remaining(ctx, "u1", TierPro, ResourceAsk))
}
