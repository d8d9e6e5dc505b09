package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// keyClient is the subset of *redis.Client used for idempotency keys.
type keyClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// IdempotencyKeys reserves request keys in Redis.
// Key format: idem:<scope>
type IdempotencyKeys struct {
	client keyClient
	ttl    time.Duration
}

func NewIdempotencyKeys(client keyClient) *IdempotencyKeys {
	return &IdempotencyKeys{client: client, ttl: idempotencyTTL}
}

// Reserve atomically claims key. It reports false when the key is already held.
func (k *IdempotencyKeys) Reserve(ctx context.Context, key string) (bool, error) {
	ok, err := k.client.SetNX(ctx, k.key(key), "1", k.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserve idempotency key: %w", err)
	}
	return ok, nil
}

// Release frees key so the same request may be retried.
func (k *IdempotencyKeys) Release(ctx context.Context, key string) error {
	if err := k.client.Del(ctx, k.key(key)).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

func (k *IdempotencyKeys) key(scope string) string {
	return "idem:" + scope
}
