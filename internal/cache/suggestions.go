// Package cache keeps ranked vendor suggestions in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"eventplanner-collab/internal/domain"
)

const keyPrefix = "suggestions:"

type SuggestionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSuggestionCache(client *redis.Client, ttl time.Duration) *SuggestionCache {
	return &SuggestionCache{client: client, ttl: ttl}
}

// Get returns the cached list for key. A miss is (nil, false, nil).
func (c *SuggestionCache) Get(ctx context.Context, key string) ([]domain.VendorSummary, bool, error) {
	const op = "cache.SuggestionCache.Get"

	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	var summaries []domain.VendorSummary
	if err := json.Unmarshal(raw, &summaries); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	return summaries, true, nil
}

func (c *SuggestionCache) Set(ctx context.Context, key string, summaries []domain.VendorSummary) error {
	const op = "cache.SuggestionCache.Set"

	raw, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *SuggestionCache) Delete(ctx context.Context, keys ...string) error {
	const op = "cache.SuggestionCache.Delete"

	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, 0, len(keys))
	for _, k := range keys {
		prefixed = append(prefixed, keyPrefix+k)
	}
	if err := c.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *SuggestionCache) Close() error {
	return c.client.Close()
}
