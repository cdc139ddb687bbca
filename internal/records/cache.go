// AngelaMos | 2026
// cache.go

package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type BestsCache interface {
	Get(ctx context.Context, userID string) ([]PersonalRecord, bool, error)
	Set(ctx context.Context, userID string, bests []PersonalRecord) error
	Invalidate(ctx context.Context, userID string) error
}

type redisBestsCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisBestsCache(rdb redis.Cmdable, ttl time.Duration) BestsCache {
	return &redisBestsCache{rdb: rdb, ttl: ttl}
}

func bestsKey(userID string) string {
	return "bests:" + userID
}

func (c *redisBestsCache) Get(
	ctx context.Context,
	userID string,
) ([]PersonalRecord, bool, error) {
	raw, err := c.rdb.Get(ctx, bestsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached bests: %w", err)
	}

	var bests []PersonalRecord
	if err := json.Unmarshal(raw, &bests); err != nil {
		return nil, false, fmt.Errorf("decode cached bests: %w", err)
	}

	return bests, true, nil
}

func (c *redisBestsCache) Set(
	ctx context.Context,
	userID string,
	bests []PersonalRecord,
) error {
	raw, err := json.Marshal(bests)
	if err != nil {
		return fmt.Errorf("encode bests: %w", err)
	}

	if err := c.rdb.Set(ctx, bestsKey(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache bests: %w", err)
	}

	return nil
}

func (c *redisBestsCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.rdb.Del(ctx, bestsKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate bests: %w", err)
	}
	return nil
}

type noopBestsCache struct{}

// NoopBestsCache disables caching.
func NoopBestsCache() BestsCache { return noopBestsCache{} }

func (noopBestsCache) Get(context.Context, string) ([]PersonalRecord, bool, error) {
	return nil, false, nil
}

func (noopBestsCache) Set(context.Context, string, []PersonalRecord) error { return nil }

func (noopBestsCache) Invalidate(context.Context, string) error { return nil }
