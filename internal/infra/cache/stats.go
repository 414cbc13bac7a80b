package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const (
	reviewStatsKey    = "contenthub:reviews:stats"
	reviewStatsGenKey = "contenthub:reviews:stats:gen"
)

// ReviewStats caches the per-status review counts shown above the pending
// queue. Writers invalidate it and bump a generation; readers refill it on a
// miss, but only if no write happened since they read the generation.
type ReviewStats struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewReviewStats(rdb *redis.Client, ttl time.Duration) *ReviewStats {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ReviewStats{rdb: rdb, ttl: ttl}
}

// Get reports false on a miss.
func (c *ReviewStats) Get(ctx context.Context) (map[string]int64, bool, error) {
	raw, err := c.rdb.Get(ctx, reviewStatsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get review stats: %w", err)
	}

	var counts map[string]int64
	if err := sonic.Unmarshal(raw, &counts); err != nil {
		// a corrupt entry is a miss
		return nil, false, nil
	}
	return counts, true, nil
}

// Generation is the number of invalidations so far. Pass it to Set.
func (c *ReviewStats) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, reviewStatsGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get review stats generation: %w", err)
	}
	return gen, nil
}

// Set stores counts unless the generation moved past gen, in which case the
// counts may predate a write and are dropped.
func (c *ReviewStats) Set(ctx context.Context, gen int64, counts map[string]int64) error {
	raw, err := sonic.Marshal(counts)
	if err != nil {
		return err
	}

	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, reviewStatsGenKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, reviewStatsKey, raw, c.ttl)
			return nil
		})
		return err
	}, reviewStatsGenKey)
	if errors.Is(err, redis.TxFailedErr) {
		// an invalidation landed between the check and the write
		return nil
	}
	return err
}

func (c *ReviewStats) Invalidate(ctx context.Context) error {
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, reviewStatsGenKey)
		p.Del(ctx, reviewStatsKey)
		return nil
	})
	return err
}
