// Package cohort Redis KV backend. Use: go get github.com/redis/go-redis/v9
package cohort

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores keys as plain Redis strings under an optional prefix.
type RedisKV struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisKV creates a KV using the given Redis client. Optional key prefix
// (e.g. "strata:").
func NewRedisKV(client redis.UniversalClient, prefix string) *RedisKV {
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &RedisKV{client: client, prefix: prefix}
}

// Get implements KV.
func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set implements KV.
func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}
