package quota

import (
	"context"
	"fmt"
	"time"
)

// counterTTL only bounds storage growth; day rollover comes from the key itself.
const counterTTL = 48 * time.Hour

// CounterStore holds the per-key daily counters.
// IncrementIfBelow must be atomic: two concurrent callers on the same key
// can never both observe a value below limit and both increment.
type CounterStore interface {
	Get(ctx context.Context, key string) (int, error)
	IncrementIfBelow(ctx context.Context, key string, limit int) (bool, error)
}

// Key builds quota:{user}:{resource}:{YYYY-MM-DD} for the UTC day of now.
func Key(userID, resource string, now time.Time) string {
	return fmt.Sprintf("quota:%s:%s:%s", userID, resource, now.UTC().Format("2006-01-02"))
}
