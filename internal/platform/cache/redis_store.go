// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatchSize is both the SCAN COUNT hint and the UNLINK batch size.
const scanBatchSize = 500

// RedisStore is a [Store] on a shared Redis server.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get implements [Store].
func (store *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := store.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements [Store].
func (store *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := store.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete implements [Store].
func (store *RedisStore) Delete(ctx context.Context, keys ...string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	removed, err := store.client.Unlink(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("redis unlink: %w", err)
	}
	return int(removed), nil
}

// DeletePrefix implements [Store] with SCAN MATCH, so the server is never
// blocked the way KEYS would block it. The scan completes before anything is
// unlinked, since removing keys mid-scan can make the cursor skip others.
func (store *RedisStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	iterator := store.client.Scan(ctx, 0, escapeGlob(prefix)+"*", scanBatchSize).Iterator()

	// 1. Collect every matching key
	var keys []string
	for iterator.Next(ctx) {
		keys = append(keys, iterator.Val())
	}
	if err := iterator.Err(); err != nil {
		return 0, fmt.Errorf("redis scan %s*: %w", prefix, err)
	}

	// 2. Unlink in batches; SCAN may report a key twice
	keys = slices.Compact(slices.Sorted(slices.Values(keys)))

	removed := 0
	for batch := range slices.Chunk(keys, scanBatchSize) {
		count, err := store.Delete(ctx, batch...)
		removed += count
		if err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// Ping implements [Store].
func (store *RedisStore) Ping(ctx context.Context) error {
	return store.client.Ping(ctx).Err()
}

// escapeGlob quotes the characters that are special in Redis MATCH patterns.
func escapeGlob(value string) string {
	var builder strings.Builder
	for _, r := range value {
		switch r {
		case '*', '?', '[', ']', '\\', '^':
			builder.WriteByte('\\')
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
